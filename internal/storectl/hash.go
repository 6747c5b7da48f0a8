package storectl

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/spf13/cobra"
)

func hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for STOREFRONT_ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := GetPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			defer wipe(pw)

			if len(bytes.TrimSpace(pw)) == 0 {
				return errors.New("password must not be empty")
			}

			hash, err := auth.HashPassword(string(pw), cost)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", auth.DefaultPasswordCost, "bcrypt cost")

	return cmd
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

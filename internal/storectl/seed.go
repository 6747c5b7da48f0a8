package storectl

import (
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/spf13/cobra"
)

func seedCmd(opts *options) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the seed admin and store now instead of on first read",
		Long: `Create the seed admin user and the default store with its products.

Running it against an initialized database changes nothing. Seed values come
from the same configuration the server uses (STOREFRONT_ADMIN_EMAIL,
STOREFRONT_ADMIN_PASSWORD or STOREFRONT_ADMIN_PASSWORD_HASH, STRIPE_SECRET_KEY,
NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, rm, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := logging.Logger(logging.NewDiscardLogger())
			if verbose {
				logger = logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.Environment)
			}

			s := services.NewStoreService(db, rm, cfg, events.NopPublisher{}, logger)
			if err := s.Initialize(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "store initialized")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log what was created")

	return cmd
}

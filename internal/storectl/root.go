// Package storectl implements the operator CLI: schema migrations, eager
// seeding and password hashing for the seed admin.
package storectl

import (
	"context"
	"database/sql"
	"io"

	"github.com/dmitrijs2005/storefront/internal/server"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

var Version = "dev"

// openDatabase is a seam for tests.
var openDatabase = func(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	return server.OpenDatabase(ctx, cfg)
}

type options struct {
	configFile string
}

// NewRootCmd builds the storectl command tree writing to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "storectl",
		Short:         "Storefront operator tool",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "JSON config file (environment still applies)")

	rootCmd.AddCommand(migrateCmd(opts))
	rootCmd.AddCommand(seedCmd(opts))
	rootCmd.AddCommand(hashPasswordCmd())

	return rootCmd
}

func (o *options) load() (*config.Config, error) {
	return config.LoadToolConfig(o.configFile)
}

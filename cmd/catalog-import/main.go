// Command catalog-import loads product CSV files into a Magento-shaped
// catalog database, either from the command line or over HTTP.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/JonMunkholm/catalog-import/internal/product/callbacks" // Register built-in callbacks
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalog-import",
		Short:        "Import product CSV files into the catalog database",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newImportCmd(), newCallbacksCmd(), newHistoryCmd())
	return root
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

func newCallbacksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callbacks",
		Short: "Print the resolved attribute callback mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			mappings, err := a.importer.CallbackMappings(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Mappings   map[string][]string `json:"mappings"`
				Registered []string            `json:"registered"`
			}{mappings.All(), product.CallbackIDs()})
		},
	}
}

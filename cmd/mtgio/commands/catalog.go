package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

var catalogDescriptions = map[mtg.Catalog]string{
	mtg.CatalogTypes:      "List all card types",
	mtg.CatalogSubtypes:   "List all card subtypes",
	mtg.CatalogSupertypes: "List all card supertypes",
	mtg.CatalogFormats:    "List all game formats",
}

// NewCatalogCommand creates the catalog command group with one subcommand
// per catalog.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"catalogs"},
		Short:   "List card types, subtypes, supertypes and formats",
	}

	for _, catalog := range mtg.Catalogs {
		cmd.AddCommand(newCatalogListCommand(catalog))
	}

	return cmd
}

func newCatalogListCommand(catalog mtg.Catalog) *cobra.Command {
	return &cobra.Command{
		Use:   string(catalog),
		Short: catalogDescriptions[catalog],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, closeClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			resp, err := client.Catalog().Get(ctx, catalog)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", catalog, err)
			}

			return renderResponse(cmd.OutOrStdout(), resp, catalogTableRenderer(catalog))
		},
	}
}

func catalogTableRenderer(catalog mtg.Catalog) func(io.Writer, []string) error {
	return func(w io.Writer, values []string) error {
		if len(values) == 0 {
			_, _ = fmt.Fprintf(w, "No %s found\n", catalog)

			return nil
		}

		table := newTable(w, titleCase(string(catalog)))
		for _, value := range values {
			_ = table.Append(value)
		}

		return renderTable(table)
	}
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/deal-desk/internal/config"
)

var catalogTopK int

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank catalog products against a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalogSearch(cmd, cfg, strings.Join(args, " "))
	},
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print reference dataset sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := initDesk(cmd.Context(), cfg, "catalog")
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), d.Stats())
	},
}

func runCatalogSearch(cmd *cobra.Command, c *config.Config, query string) error {
	d, err := initDesk(cmd.Context(), c, "catalog")
	if err != nil {
		return err
	}
	topK := catalogTopK
	if topK <= 0 {
		topK = c.Retrieval.CatalogTopK
	}
	return printJSON(cmd.OutOrStdout(), d.Catalog.Search(query, topK))
}

func init() {
	catalogSearchCmd.Flags().IntVar(&catalogTopK, "top-k", 0, "number of matches (default from config)")
	catalogCmd.AddCommand(catalogSearchCmd, catalogStatsCmd)
	rootCmd.AddCommand(catalogCmd)
}

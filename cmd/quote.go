package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/quote"
)

var (
	quoteDealID   string
	quoteCompany  string
	quoteProducts string
)

var quoteCmd = &cobra.Command{
	Use:     "quote",
	Short:   "Price a deal and print its market assessment and advice",
	Example: `  deal-desk quote --deal-id D-1001 --company "Acme Bio" --products "PureLink Plasmid Kit, NanoDrop One"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote(cmd, cfg)
	},
}

func runQuote(cmd *cobra.Command, c *config.Config) error {
	d, err := initDesk(cmd.Context(), c, "quote")
	if err != nil {
		return err
	}

	state, err := d.Quotes.Generate(cmd.Context(), model.QuoteRequest{
		DealID:      quoteDealID,
		CompanyName: quoteCompany,
		Products:    quote.ParseProducts(quoteProducts),
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), state)
}

func init() {
	quoteCmd.Flags().StringVar(&quoteDealID, "deal-id", "", "deal identifier")
	quoteCmd.Flags().StringVar(&quoteCompany, "company", "", "customer company name")
	quoteCmd.Flags().StringVar(&quoteProducts, "products", "", "comma or newline separated product names")
	rootCmd.AddCommand(quoteCmd)
}

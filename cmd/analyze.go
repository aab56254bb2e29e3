package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/requirements"
)

var (
	analyzeText    string
	analyzeFile    string
	analyzeCompany string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one sales request and print the requirement report",
	Example: `  deal-desk analyze --text "Need 10 endotoxin-free plasmid kits within 2 weeks"
  deal-desk analyze --file rfq.pdf --company "Acme Bio"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, cfg)
	},
}

func runAnalyze(cmd *cobra.Command, c *config.Config) error {
	if (analyzeText == "") == (analyzeFile == "") {
		return eris.New("exactly one of --text or --file is required")
	}

	d, err := initDesk(cmd.Context(), c, "analyze")
	if err != nil {
		return err
	}

	in := requirements.Input{Text: analyzeText, Source: "text"}
	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", analyzeFile)
		}
		text, _, err := d.Documents.Extract(cmd.Context(), filepath.Base(analyzeFile), data)
		if err != nil {
			return err
		}
		in = requirements.Input{Text: text, Source: "file"}
	}
	if company := strings.TrimSpace(analyzeCompany); company != "" {
		in.Structured = map[string]any{"company_name": company}
	}

	report, err := d.Analyzer.Analyze(cmd.Context(), in)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "request text")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "request document (.txt, .docx, .pdf, .csv, .xlsx)")
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "customer company name")
	rootCmd.AddCommand(analyzeCmd)
}

// Package desk loads the reference datasets once and wires the long-lived
// services that request handlers share.
package desk

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/deal-desk/internal/catalog"
	"github.com/sells-group/deal-desk/internal/competition"
	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/document"
	"github.com/sells-group/deal-desk/internal/history"
	"github.com/sells-group/deal-desk/internal/llm"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/pricing"
	"github.com/sells-group/deal-desk/internal/quote"
	"github.com/sells-group/deal-desk/internal/requirements"
	"github.com/sells-group/deal-desk/internal/source"
)

// Desk holds the loaded indexes and the services built on them. Everything
// except the deal store is read-only after Load returns.
type Desk struct {
	Catalog     *catalog.Index
	History     *history.Index
	Prices      *pricing.Catalog
	Competitors []model.CompetitorRow

	Analyzer  *requirements.Analyzer
	Quotes    *quote.Pipeline
	Documents *document.Extractor
}

// Stats summarizes the loaded datasets.
type Stats struct {
	CatalogItems   int `json:"catalog_items"`
	HistoryRows    int `json:"history_rows"`
	PricedProducts int `json:"priced_products"`
	CompetitorRows int `json:"competitor_rows"`
	StoredDeals    int `json:"stored_deals"`
}

// Load reads every reference dataset in parallel and builds the services.
// Any missing or malformed dataset fails the whole load.
func Load(ctx context.Context, cfg *config.Config, gen llm.Generator) (*Desk, error) {
	start := time.Now()

	var (
		entries      []model.CatalogEntry
		historyTable *source.Table
		pricingTable *source.Table
		competitors  []model.CompetitorRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = catalog.Load(gctx, cfg.Data.CatalogPath)
		return err
	})
	g.Go(func() error {
		var err error
		historyTable, err = history.LoadTable(gctx, cfg.Data.HistoryPath)
		return err
	})
	g.Go(func() error {
		var err error
		pricingTable, err = history.LoadTable(gctx, cfg.Data.PricingHistoryPath)
		return err
	})
	g.Go(func() error {
		var err error
		competitors, err = competition.Load(gctx, cfg.Data.CompetitorsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "desk: load reference data")
	}

	prices, err := pricing.Build(pricingTable)
	if err != nil {
		return nil, eris.Wrap(err, "desk: build price catalog")
	}

	d := &Desk{
		Catalog: catalog.NewIndex(entries, catalog.Options{
			TFIDFEnabled: cfg.Retrieval.TFIDFEnabled,
			MaxFeatures:  cfg.Retrieval.TFIDFMaxFeatures,
		}),
		History:     history.NewIndex(history.Deals(historyTable)),
		Prices:      prices,
		Competitors: competitors,
		Documents:   document.NewExtractor(document.NewPdfToText(cfg.Upload.PdfToTextPath)),
	}
	d.Analyzer = requirements.New(d.Catalog, d.History, gen, requirements.Options{
		CatalogTopK: cfg.Retrieval.CatalogTopK,
		HistoryTopK: cfg.Retrieval.HistoryTopK,
	})
	d.Quotes = quote.New(d.Prices, d.Competitors, gen, quote.NewStore())

	s := d.Stats()
	zap.L().Info("desk: reference data loaded",
		zap.Int("catalog_items", s.CatalogItems),
		zap.Int("history_rows", s.HistoryRows),
		zap.Int("priced_products", s.PricedProducts),
		zap.Int("competitor_rows", s.CompetitorRows),
		zap.Duration("elapsed", time.Since(start)),
	)
	return d, nil
}

// Stats returns dataset sizes and the number of stored deals.
func (d *Desk) Stats() Stats {
	return Stats{
		CatalogItems:   d.Catalog.Len(),
		HistoryRows:    d.History.Len(),
		PricedProducts: d.Prices.Len(),
		CompetitorRows: len(d.Competitors),
		StoredDeals:    d.Quotes.Store().Len(),
	}
}

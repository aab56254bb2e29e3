// Package model defines the shared data types of the deal desk: catalog
// entries, historical deals, extracted requirements, and quote state.
package model

import "strings"

// CatalogEntry is one sellable product loaded from the catalog source.
type CatalogEntry struct {
	ProductID   string   `json:"product_id,omitempty" yaml:"product_id"`
	ProductName string   `json:"product_name" yaml:"product_name"`
	Description string   `json:"description" yaml:"description"`
	UseCase     string   `json:"use_case" yaml:"use_case"`
	KeyFeatures string   `json:"key_features" yaml:"key_features"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

// Text returns the concatenated searchable text of the entry.
func (c CatalogEntry) Text() string {
	return strings.Join([]string{
		c.ProductName,
		c.Description,
		c.UseCase,
		c.KeyFeatures,
		strings.Join(c.Keywords, ", "),
	}, " | ")
}

// ProductMatch is a catalog entry ranked against a free-text query.
type ProductMatch struct {
	CatalogEntry
	Score       float64  `json:"score"`
	Confidence  float64  `json:"confidence"`
	MatchReason []string `json:"match_reason"`
}

// ComparativePosition is the competitor dataset's verdict for a product pairing.
type ComparativePosition string

const (
	PositionCompetitorAdvantage ComparativePosition = "Competitor Advantage"
	PositionNeutral             ComparativePosition = "Neutral"
	PositionOurAdvantage        ComparativePosition = "Thermo Advantage"
)

// CompetitorRow is one row of the competitor comparison dataset.
type CompetitorRow struct {
	ThermoProduct        string              `json:"thermo_product"`
	ComparativePosition  ComparativePosition `json:"comparative_position"`
	CompetitorCompany    string              `json:"competitor_company"`
	CompetitorProduct    string              `json:"competitor_product"`
	NetAssessmentSummary string              `json:"net_assessment_summary"`
}

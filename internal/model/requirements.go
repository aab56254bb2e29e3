package model

// ConstraintField names one of the five rule-extracted constraint fields.
type ConstraintField string

const (
	FieldTimeline   ConstraintField = "timeline"
	FieldQuantity   ConstraintField = "quantity"
	FieldBudget     ConstraintField = "budget"
	FieldThroughput ConstraintField = "throughput"
	FieldCompliance ConstraintField = "compliance"
)

// ConstraintFields lists the constraint fields in canonical order.
var ConstraintFields = []ConstraintField{
	FieldTimeline, FieldQuantity, FieldBudget, FieldThroughput, FieldCompliance,
}

// Constraint is a single extracted value and its heuristic confidence.
// An empty Value means the field was not found.
type Constraint struct {
	Value      string
	Confidence float64
}

// ConstraintSet is the immutable output of the rule-based extractor.
type ConstraintSet struct {
	Timeline   Constraint
	Quantity   Constraint
	Budget     Constraint
	Throughput Constraint
	Compliance Constraint
}

// Get returns the constraint for field.
func (c ConstraintSet) Get(field ConstraintField) Constraint {
	switch field {
	case FieldTimeline:
		return c.Timeline
	case FieldQuantity:
		return c.Quantity
	case FieldBudget:
		return c.Budget
	case FieldThroughput:
		return c.Throughput
	case FieldCompliance:
		return c.Compliance
	}
	return Constraint{}
}

// Values returns field → extracted value.
func (c ConstraintSet) Values() map[string]string {
	out := make(map[string]string, len(ConstraintFields))
	for _, f := range ConstraintFields {
		out[string(f)] = c.Get(f).Value
	}
	return out
}

// Confidences returns field → confidence.
func (c ConstraintSet) Confidences() map[string]float64 {
	out := make(map[string]float64, len(ConstraintFields))
	for _, f := range ConstraintFields {
		out[string(f)] = c.Get(f).Confidence
	}
	return out
}

// AverageConfidence is the mean confidence across all five fields.
func (c ConstraintSet) AverageConfidence() float64 {
	var sum float64
	for _, f := range ConstraintFields {
		sum += c.Get(f).Confidence
	}
	return sum / float64(len(ConstraintFields))
}

// Evidence is one requirement with the text that supports it.
type Evidence struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Evidence   string  `json:"evidence"`
	Confidence float64 `json:"confidence"`
}

// Priority ranks follow-up questions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// GapQuestion is a follow-up question for a missing or ambiguous requirement.
type GapQuestion struct {
	MissingField string   `json:"missing_field"`
	Question     string   `json:"question_to_ask"`
	Priority     Priority `json:"priority"`
}

// Band buckets a deal score.
type Band string

const (
	BandLow      Band = "LOW"
	BandModerate Band = "MODERATE"
	BandHigh     Band = "HIGH"
)

// DealScore is the bounded opportunity score and its rationale.
type DealScore struct {
	Score   int      `json:"score"`
	Band    Band     `json:"band"`
	Reasons []string `json:"reasons"`
}

// LLMStatus records whether LLM-sourced content is live or a fallback.
type LLMStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

const (
	LLMStatusOK       = "ok"
	LLMStatusDegraded = "degraded"
)

// Customer identifies who the request is from.
type Customer struct {
	CompanyName       string `json:"company_name"`
	CompanySeenBefore bool   `json:"company_seen_before"`
}

// RequestSummary is the one-line digest of the request.
type RequestSummary struct {
	OneLine        string `json:"one_line"`
	RawTextExcerpt string `json:"raw_text_excerpt"`
}

// Requirements holds explicit/implicit evidence and the merged constraints.
type Requirements struct {
	Explicit    []Evidence        `json:"explicit"`
	Implicit    []Evidence        `json:"implicit"`
	Constraints map[string]string `json:"constraints"`
}

// HistoryContext is the deal history retrieved for the request.
type HistoryContext struct {
	CompanyDeals     []HistoricalDeal `json:"company_deals"`
	MostSimilarDeals []HistoricalDeal `json:"most_similar_deals"`
}

// DealIntelligence is the scoring block of a report.
type DealIntelligence struct {
	DealScore            int                `json:"deal_score"`
	DealBand             Band               `json:"deal_band"`
	Reasons              []string           `json:"reasons"`
	ConfidencePct        int                `json:"confidence_pct"`
	ConstraintConfidence map[string]float64 `json:"constraint_confidence"`
}

// RequirementReport is the result of one analysis call.
type RequirementReport struct {
	AnalysisID       string           `json:"analysis_id"`
	Customer         Customer         `json:"customer"`
	RequestSummary   RequestSummary   `json:"request_summary"`
	Requirements     Requirements     `json:"requirements"`
	ProductMatches   []ProductMatch   `json:"product_matches"`
	HistoryContext   HistoryContext   `json:"history_context"`
	GapsAndQuestions []GapQuestion    `json:"gaps_and_questions"`
	DealIntelligence DealIntelligence `json:"deal_intelligence"`
	LLM              LLMStatus        `json:"llm"`
}

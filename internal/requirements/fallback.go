package requirements

import (
	"strings"

	"github.com/sells-group/deal-desk/internal/model"
)

type keywordRule struct {
	keyword  string
	evidence model.Evidence
}

var explicitRules = []keywordRule{
	{"endotoxin", model.Evidence{Type: "Product Type", Value: "Endotoxin-free plasmid kit", Evidence: "endotoxin", Confidence: 0.8}},
	{"transfection", model.Evidence{Type: "Application", Value: "Transfection", Evidence: "transfection", Confidence: 0.8}},
	{"nanodrop", model.Evidence{Type: "Instrument", Value: "NanoDrop / microvolume UV-Vis", Evidence: "nanodrop", Confidence: 0.8}},
	{"pcr", model.Evidence{Type: "Application", Value: "PCR", Evidence: "pcr", Confidence: 0.75}},
	{"cloning", model.Evidence{Type: "Application", Value: "Cloning", Evidence: "cloning", Confidence: 0.75}},
}

var throughputSignals = []string{"500", "samples/week", "high throughput", "automation"}

// heuristicExplicit finds product and application mentions by keyword.
func heuristicExplicit(text string) []model.Evidence {
	t := strings.ToLower(text)
	out := []model.Evidence{}
	for _, r := range explicitRules {
		if strings.Contains(t, r.keyword) {
			out = append(out, r.evidence)
		}
	}
	return out
}

// heuristicImplicit infers quality and scale needs from context words.
func heuristicImplicit(text string) []model.Evidence {
	t := strings.ToLower(text)
	out := []model.Evidence{}
	if strings.Contains(t, "endotoxin") || strings.Contains(t, "transfection") {
		out = append(out, model.Evidence{
			Type: "Quality", Value: "High purity / transfection-grade",
			Evidence: "endotoxin/transfection context", Confidence: 0.7,
		})
	}
	for _, s := range throughputSignals {
		if strings.Contains(t, s) {
			out = append(out, model.Evidence{
				Type: "Scale", Value: "High throughput workflow likely required",
				Evidence: "throughput signals", Confidence: 0.65,
			})
			break
		}
	}
	return out
}

package requirements

const systemPrompt = "You are an enterprise Sales Requirements Extraction Agent. " +
	"Return ONLY valid JSON, no markdown. " +
	"Extract explicit and implicit requirements from the sales text. " +
	"Use catalog matches & history as context. " +
	"Do NOT invent SKUs; only infer requirements and questions."

const schemaHint = `{
  "request_summary": "string",
  "requirements": {
    "explicit": [{"type":"string","value":"string","evidence":"string","confidence":0.0}],
    "implicit": [{"type":"string","value":"string","evidence":"string","confidence":0.0}],
    "constraints": {
      "timeline": "string",
      "quantity": "string",
      "budget": "string",
      "throughput": "string",
      "compliance": "string"
    }
  },
  "gaps_and_questions": [{"missing_field":"string","question_to_ask":"string","priority":"low|medium|high"}]
}`

var (
	optionalString = map[string]any{"type": []any{"string", "null"}}
	optionalNumber = map[string]any{"type": []any{"number", "null"}}
)

var evidenceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type":       optionalString,
		"value":      optionalString,
		"evidence":   optionalString,
		"confidence": optionalNumber,
	},
}

// schema checks the shape of the model's reply. Fields may be missing or
// null; incomplete list items are dropped after decoding.
var schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"request_summary": map[string]any{"type": "string"},
		"requirements": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"explicit":    map[string]any{"type": "array", "items": evidenceSchema},
				"implicit":    map[string]any{"type": "array", "items": evidenceSchema},
				"constraints": map[string]any{"type": "object", "additionalProperties": optionalString},
			},
		},
		"gaps_and_questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"missing_field":   optionalString,
					"question_to_ask": optionalString,
					"priority":        optionalString,
				},
			},
		},
	},
}

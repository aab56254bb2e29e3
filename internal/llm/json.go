package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
)

const excerptLen = 400

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// ParseObject decodes an LLM response into a JSON object. It tries a strict
// parse, then the outermost {...} slice with code fences removed, then a
// repaired version of that slice with trailing commas dropped and truncated
// delimiters closed. Anything still unparseable is a data error carrying an
// excerpt of the raw text.
func ParseObject(raw string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil && out != nil {
		return out, nil
	}

	cleaned := cleanJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil && out != nil {
		return out, nil
	}

	repaired := repairJSON(cleaned)
	if err := json.Unmarshal([]byte(repaired), &out); err == nil && out != nil {
		return out, nil
	}

	return nil, apperr.Dataf("llm: response is not valid JSON: %s", excerpt(raw))
}

// cleanJSON strips markdown code fences and slices from the first '{' to the
// last '}'. A response with no closing brace keeps its tail so repairJSON can
// close it.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return strings.TrimSpace(text)
	}
	end := strings.LastIndex(text, "}")
	if end > start && closes(text[start:end+1]) {
		return strings.TrimSpace(text[start : end+1])
	}
	return strings.TrimSpace(text[start:])
}

// closes reports whether the braces and brackets in text are balanced.
func closes(text string) bool {
	stack, _ := scan(text)
	return len(stack) == 0
}

// repairJSON removes trailing commas and closes any delimiters or string
// left open by a truncated response.
func repairJSON(text string) string {
	if text == "" {
		return text
	}
	text = trailingComma.ReplaceAllString(text, "$1")

	stack, inString := scan(text)
	if inString {
		text += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		text = strings.TrimRight(text, " \t\n\r,:")
		text += string(stack[i])
	}
	return text
}

// scan returns the closers for the delimiters still open at the end of text
// and whether text ends inside a string literal.
func scan(text string) ([]byte, bool) {
	var stack []byte
	inString := false
	escape := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escape {
			escape = false
			continue
		}
		if c == '\\' && inString {
			escape = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack, inString
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > excerptLen {
		return string(r[:excerptLen]) + "..."
	}
	return s
}

package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeBlockPattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON pulls a JSON value out of a model response. It first tries a
// fenced ```json code block, then a raw parse, then a best-effort
// substring between the first '{' and the last '}'. The boolean reports
// whether anything parsed.
func ExtractJSON(text string) (any, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	candidate := text
	if m := codeBlockPattern.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err == nil {
		return v, true
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(candidate[start:end+1]), &v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// insightsFromResponse interprets a summarizer response: either an
// {"insights": [...]} object, a bare JSON list, or free text split into
// lines with bullet characters trimmed.
func insightsFromResponse(text string) []string {
	parsed, ok := ExtractJSON(text)
	if ok {
		switch v := parsed.(type) {
		case map[string]any:
			if raw, ok := v["insights"].([]any); ok {
				return stringify(raw)
			}
		case []any:
			return stringify(v)
		}
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, "-• \t\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func stringify(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case float64, json.Number, int:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

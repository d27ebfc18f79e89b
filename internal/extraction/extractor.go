package extraction

// Extractor is a structured producer: one attempt at turning a statement
// document into a raw JSON-shaped payload. Implementations may fail with a
// transport error or a *ParseError; the caller falls back to local
// recognition either way.
type Extractor interface {
	// ExtractStatement analyzes a statement document and returns the raw
	// decoded payload (usually a map, sometimes a bare list).
	ExtractStatement(data []byte, contentType string) (any, error)
	// Close releases producer resources.
	Close() error
}

// Summarizer generates short observations from a reconciled record.
type Summarizer interface {
	// SummarizeFields returns up to a handful of concise bullets for the
	// given fields JSON.
	SummarizeFields(fieldsJSON []byte) ([]string, error)
}

// ParseError reports a producer response that could not be parsed as JSON.
// Preview carries a truncated copy of the raw response for the quality
// report.
type ParseError struct {
	Preview string
}

func (e *ParseError) Error() string {
	return "model returned non-JSON or parse failed"
}

const previewLimit = 200

func preview(text string) string {
	if len(text) > previewLimit {
		return text[:previewLimit] + "..."
	}
	return text
}

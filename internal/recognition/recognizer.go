package recognition

// Result holds recognized text plus an optional mean word-confidence score
// in the 0-100 range.
type Result struct {
	Text       string
	Confidence *float64
}

// Recognizer is the local text-recognition capability: one best-effort
// pass over an image or rendered page. It may fail when the underlying
// engine is unavailable; callers degrade to an empty payload.
type Recognizer interface {
	RecognizeText(data []byte, contentType string) (Result, error)
}

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/CKaviya23/bank-statement-parser/internal/document"
	"github.com/CKaviya23/bank-statement-parser/internal/extraction"
	"github.com/CKaviya23/bank-statement-parser/internal/recognition"
	"github.com/CKaviya23/bank-statement-parser/internal/statement"
)

// Options is the configuration handed to the orchestrator at construction.
// The reconciliation core never reads process-global state.
type Options struct {
	APIKey         string
	ModelName      string
	PrimaryEnabled bool

	// Producer selects the structured producer: "gemini" or "ollama".
	Producer  string
	OllamaURL string

	// TesseractCmd overrides the OCR binary name; empty means "tesseract"
	// on PATH.
	TesseractCmd string
}

// Pipeline runs one statement document through a strict single-pass state
// machine: AttemptPrimary, AttemptFallback, Reconcile, Summarize, Done.
// Each producer is attempted at most once per run and no state is
// revisited. Runs share nothing, so concurrent documents need no locking.
type Pipeline struct {
	opts       Options
	extractor  extraction.Extractor
	summarizer extraction.Summarizer
	recognizer recognition.Recognizer
}

// New builds a pipeline with explicit producers. Any producer may be nil;
// a nil extractor disables the primary path and a nil recognizer degrades
// the fallback to plain-text reads.
func New(opts Options, extractor extraction.Extractor, summarizer extraction.Summarizer, recognizer recognition.Recognizer) *Pipeline {
	return &Pipeline{
		opts:       opts,
		extractor:  extractor,
		summarizer: summarizer,
		recognizer: recognizer,
	}
}

// FromOptions wires producers from configuration: a Gemini or Ollama
// structured producer (doubling as summarizer) and a tesseract recognizer.
// A missing tesseract binary is not fatal — the fallback path reports it
// per run instead.
func FromOptions(opts Options) (*Pipeline, error) {
	var extractor extraction.Extractor
	var summarizer extraction.Summarizer

	if opts.PrimaryEnabled {
		switch opts.Producer {
		case "", "gemini":
			gemini, err := extraction.NewGemini(opts.APIKey, opts.ModelName)
			if err != nil {
				return nil, fmt.Errorf("initializing gemini producer: %w", err)
			}
			extractor, summarizer = gemini, gemini
		case "ollama":
			ollama, err := extraction.NewOllama(opts.OllamaURL, opts.ModelName)
			if err != nil {
				return nil, fmt.Errorf("initializing ollama producer: %w", err)
			}
			extractor, summarizer = ollama, ollama
		default:
			return nil, fmt.Errorf("unknown producer %q (valid: gemini, ollama)", opts.Producer)
		}
	}

	recognizer, err := recognition.NewTesseract(opts.TesseractCmd)
	if err != nil {
		slog.Warn("Local OCR unavailable", "error", err)
		return New(opts, extractor, summarizer, nil), nil
	}
	return New(opts, extractor, summarizer, recognizer), nil
}

// Close releases producer resources.
func (p *Pipeline) Close() error {
	if p.extractor != nil {
		return p.extractor.Close()
	}
	return nil
}

// Process runs one document through the pipeline. Malformed or
// unextractable documents never fail: every producer error is absorbed
// into the quality report. Only a missing input file is returned as an
// error.
func (p *Pipeline) Process(path string) (*statement.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("statement file: %w", err)
	}
	return p.ProcessData(data, path), nil
}

// ProcessData runs already-loaded document bytes through the pipeline.
// The filename is used only to classify the document kind. It cannot fail:
// malformed content degrades to an empty record with an annotated quality
// report.
func (p *Pipeline) ProcessData(data []byte, filename string) *statement.Result {
	kind, contentType := document.Detect(filename)

	quality := statement.NewQuality()
	payload, extracted := p.attemptPrimary(data, contentType, quality)
	if !extracted {
		payload = p.attemptFallback(data, kind, contentType, quality)
	}

	fields := statement.Reconcile(payload, quality)
	insights := p.summarize(fields, quality)

	return &statement.Result{
		Fields:   fields,
		Insights: insights,
		Quality:  quality,
	}
}

// attemptPrimary invokes the structured producer once. A producer or parse
// failure is recorded and hands control to the fallback.
func (p *Pipeline) attemptPrimary(data []byte, contentType string, quality *statement.Quality) (statement.Payload, bool) {
	if p.extractor == nil || !p.opts.PrimaryEnabled {
		return statement.Payload{}, false
	}

	quality.ExtractorUsed = true
	raw, err := p.extractor.ExtractStatement(data, contentType)
	if err != nil {
		quality.ExtractorUsed = false
		quality.SetExtractorError(err.Error())
		var parseErr *extraction.ParseError
		if errors.As(err, &parseErr) {
			quality.AddLabeledNote("extractor_resp_preview", parseErr.Preview)
		}
		slog.Warn("Structured extraction failed, falling back", "error", err)
		return statement.Payload{}, false
	}
	return statement.Coerce(raw), true
}

// attemptFallback builds a payload from the local heuristic path: OCR for
// images and PDFs, a raw read for plain text. It always produces a
// (possibly empty) payload.
func (p *Pipeline) attemptFallback(data []byte, kind document.Kind, contentType string, quality *statement.Quality) statement.Payload {
	quality.AddNote("Local OCR/heuristic parsing used.")

	var text string
	switch kind {
	case document.KindText:
		text = string(data)
	default:
		if p.recognizer == nil {
			quality.AddNote("Local OCR error: no recognition engine available")
			break
		}
		result, err := p.recognizer.RecognizeText(data, contentType)
		if err != nil {
			quality.AddNote(fmt.Sprintf("Local OCR error: %v", err))
			break
		}
		text = result.Text
		quality.OCRConfidence = result.Confidence
	}

	payload := statement.EmptyPayload()
	for candidate := range statement.ScanTransactions(text) {
		payload.Transactions = append(payload.Transactions, candidate.Entry())
	}
	return payload
}

// summarize attempts the external summarizer only when the structured
// producer succeeded; any failure or absence falls back to local rules.
func (p *Pipeline) summarize(fields statement.Fields, quality *statement.Quality) []string {
	var insights []string
	if quality.ExtractorUsed && p.summarizer != nil {
		if fieldsJSON, err := json.Marshal(fields); err == nil {
			got, err := p.summarizer.SummarizeFields(fieldsJSON)
			if err != nil {
				quality.AddNote(fmt.Sprintf("Model insights failed: %v", err))
			} else {
				insights = got
			}
		}
	}
	if len(insights) == 0 {
		insights = statement.LocalInsights(fields)
	}
	if len(insights) > statement.MaxInsights {
		insights = insights[:statement.MaxInsights]
	}
	return insights
}

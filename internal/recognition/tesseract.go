package recognition

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/CKaviya23/bank-statement-parser/internal/document"
)

// Tesseract drives the tesseract CLI binary. Pages are fed through stdin
// as PNG and read back as TSV, which carries per-word confidence scores as
// well as the text itself.
type Tesseract struct {
	binary string
}

// NewTesseract locates the tesseract binary. An empty binary name means
// "tesseract" on PATH.
func NewTesseract(binary string) (*Tesseract, error) {
	if binary == "" {
		binary = "tesseract"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("locating tesseract binary: %w", err)
	}
	return &Tesseract{binary: path}, nil
}

// RecognizeText runs OCR over an image or every page of a PDF and returns
// the joined text with a mean word confidence.
func (t *Tesseract) RecognizeText(data []byte, contentType string) (Result, error) {
	pages, err := document.Pages(data, contentType)
	if err != nil {
		return Result{}, fmt.Errorf("preparing pages for OCR: %w", err)
	}

	var texts []string
	var confidences []float64
	for i, page := range pages {
		out, err := t.run(page)
		if err != nil {
			return Result{}, fmt.Errorf("page %d: %w", i, err)
		}
		text, confs := parseTSV(out)
		texts = append(texts, text)
		confidences = append(confidences, confs...)
	}

	result := Result{Text: strings.Join(texts, "\n")}
	if len(confidences) > 0 {
		sum := 0.0
		for _, c := range confidences {
			sum += c
		}
		mean := sum / float64(len(confidences))
		result.Confidence = &mean
	}
	return result, nil
}

func (t *Tesseract) run(pngData []byte) ([]byte, error) {
	cmd := exec.Command(t.binary, "stdin", "stdout", "tsv")
	cmd.Stdin = bytes.NewReader(pngData)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("running tesseract: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("running tesseract: %w", err)
	}
	return stdout.Bytes(), nil
}

// TSV columns: level page_num block_num par_num line_num word_num left top
// width height conf text. Word rows are level 5; layout rows carry conf -1
// and contribute line breaks only.
const (
	tsvColumns  = 12
	tsvColLevel = 0
	tsvColLine  = 4
	tsvColPar   = 3
	tsvColBlock = 2
	tsvColConf  = 10
	tsvColText  = 11
)

// parseTSV reconstructs text from tesseract TSV output and collects word
// confidences.
func parseTSV(out []byte) (string, []float64) {
	var b strings.Builder
	var confidences []float64
	lastLine := ""
	first := true

	for _, row := range strings.Split(string(out), "\n") {
		fields := strings.Split(strings.TrimRight(row, "\r"), "\t")
		if len(fields) < tsvColumns || fields[tsvColLevel] != "5" {
			continue
		}
		word := fields[tsvColText]
		if strings.TrimSpace(word) == "" {
			continue
		}
		lineKey := fields[tsvColBlock] + "/" + fields[tsvColPar] + "/" + fields[tsvColLine]
		switch {
		case first:
			first = false
		case lineKey != lastLine:
			b.WriteByte('\n')
		default:
			b.WriteByte(' ')
		}
		lastLine = lineKey
		b.WriteString(word)

		if conf, err := strconv.ParseFloat(fields[tsvColConf], 64); err == nil && conf >= 0 {
			confidences = append(confidences, conf)
		}
	}
	return b.String(), confidences
}

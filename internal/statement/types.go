package statement

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Summary values and amounts are numbers in the output document, not
	// quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Payload is the canonical three-section shape every producer result is
// reduced to before reconciliation. Section maps are never nil.
type Payload struct {
	Account      map[string]any
	Summary      map[string]any
	Transactions []any
}

// AccountInfo holds statement metadata. Every field is optional; a nil
// pointer marshals to null.
type AccountInfo struct {
	BankName       *string `json:"Bank name"`
	HolderName     *string `json:"Account holder name"`
	AccountNumber  *string `json:"Account number"`
	StatementMonth *string `json:"Statement month"`
	AccountType    *string `json:"Account type"`
}

// SummaryValues holds the statement-level balances. Values are either a
// finite decimal or absent.
type SummaryValues struct {
	OpeningBalance      *decimal.Decimal `json:"Opening balance"`
	ClosingBalance      *decimal.Decimal `json:"Closing balance"`
	TotalCredits        *decimal.Decimal `json:"Total credits"`
	TotalDebits         *decimal.Decimal `json:"Total debits"`
	AverageDailyBalance *decimal.Decimal `json:"Average daily balance"`
}

// Transaction is one reconciled statement entry. Date is always the
// canonical YYYY-MM-DD form when the raw value contained a recognizable
// date pattern.
type Transaction struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Balance     *decimal.Decimal `json:"balance"`
	Category    *string          `json:"category"`
}

// Entry converts a transaction back into a raw payload entry so heuristic
// candidates pass through the same validity and dedup rules as producer
// output.
func (t Transaction) Entry() map[string]any {
	e := map[string]any{
		"date":        t.Date,
		"description": t.Description,
		"amount":      t.Amount,
	}
	if t.Balance != nil {
		e["balance"] = *t.Balance
	}
	if t.Category != nil {
		e["category"] = *t.Category
	}
	return e
}

// Fields is the reconciled statement record: account metadata, summary
// balances and the ordered, deduplicated transaction list.
type Fields struct {
	AccountInfo   AccountInfo   `json:"Account Info"`
	SummaryValues SummaryValues `json:"Summary Values"`
	Transactions  []Transaction `json:"Transactions"`
}

// Note is one diagnostic entry in the quality report. A plain note has an
// empty Label and marshals to a string; a labeled note marshals to a
// two-element [label, detail] array.
type Note struct {
	Label string
	Text  string
}

func (n Note) MarshalJSON() ([]byte, error) {
	if n.Label == "" {
		return json.Marshal(n.Text)
	}
	return json.Marshal([2]string{n.Label, n.Text})
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Note{Text: s}
		return nil
	}
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err == nil {
		*n = Note{Label: pair[0], Text: pair[1]}
		return nil
	}
	return fmt.Errorf("note must be a string or a [label, detail] pair")
}

// Quality describes what was uncertain, missing or failed during one
// pipeline run. Degraded confidence is reported here, never as an error.
type Quality struct {
	OCRConfidence        *float64 `json:"ocr_confidence"`
	PageRotationWarnings bool     `json:"page_rotation_warnings"`
	MissingSections      []string `json:"missing_sections"`
	DuplicateEntries     bool     `json:"duplicate_entries"`
	ExtractorUsed        bool     `json:"extractor_used"`
	ExtractorError       *string  `json:"extractor_error"`
	Notes                []Note   `json:"notes"`
}

// NewQuality returns an empty report with non-nil slices so the JSON form
// always carries arrays.
func NewQuality() *Quality {
	return &Quality{
		MissingSections: []string{},
		Notes:           []Note{},
	}
}

// AddNote appends a plain diagnostic note.
func (q *Quality) AddNote(text string) {
	q.Notes = append(q.Notes, Note{Text: text})
}

// AddLabeledNote appends a labeled diagnostic note.
func (q *Quality) AddLabeledNote(label, text string) {
	q.Notes = append(q.Notes, Note{Label: label, Text: text})
}

// SetExtractorError records a primary-producer failure message.
func (q *Quality) SetExtractorError(msg string) {
	q.ExtractorError = &msg
}

// Result is the final output of one pipeline run, marshalled with exactly
// the three top-level keys fields, insights and quality.
type Result struct {
	Fields   Fields   `json:"fields"`
	Insights []string `json:"insights"`
	Quality  *Quality `json:"quality"`
}

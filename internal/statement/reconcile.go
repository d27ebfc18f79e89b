package statement

import (
	"fmt"
	"sort"
	"strings"
)

// txnKey identifies a transaction for dedup purposes. The amount component
// is rendered with fixed precision so cosmetic differences between string
// and numeric producer values ("-2,000.00" vs -2000.0) compare equal.
type txnKey struct {
	date   string
	desc   string
	amount string
}

// Reconcile normalizes a coerced payload into the final record and
// annotates the quality report. Invalid entries are dropped silently,
// later duplicates are dropped with the duplicate flag set, and any
// field-level failure degrades that field to absent. It never fails.
func Reconcile(p Payload, q *Quality) Fields {
	seen := make(map[txnKey]struct{}, len(p.Transactions))
	txns := make([]Transaction, 0, len(p.Transactions))

	for _, raw := range p.Transactions {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		date := NormalizeDate(entryString(entry, "date", "Date", "date_str"))
		desc := strings.TrimSpace(entryString(entry, "description", "Description"))
		amount := NormalizeAmount(entryValue(entry, "amount", "Amount"))
		balance := NormalizeAmount(entryValue(entry, "balance", "Balance"))
		if date == "" || desc == "" || amount == nil {
			continue
		}
		key := txnKey{date: date, desc: strings.ToLower(desc), amount: amount.StringFixed(4)}
		if _, dup := seen[key]; dup {
			q.DuplicateEntries = true
			continue
		}
		seen[key] = struct{}{}
		txns = append(txns, Transaction{
			Date:        date,
			Description: desc,
			Amount:      *amount,
			Balance:     balance,
			Category:    entryStringPtr(entry, "category"),
		})
	}

	// ISO date strings order lexicographically, so this is chronological.
	// Stable keeps insertion order for equal dates.
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date < txns[j].Date })

	account := AccountInfo{
		BankName:       entryStringPtr(p.Account, "Bank name", "bank_name"),
		HolderName:     entryStringPtr(p.Account, "Account holder name", "account_holder_name"),
		AccountNumber:  maskPtr(entryStringPtr(p.Account, "Account number", "account_number")),
		StatementMonth: entryStringPtr(p.Account, "Statement month", "statement_month"),
		AccountType:    entryStringPtr(p.Account, "Account type", "account_type"),
	}
	summary := SummaryValues{
		OpeningBalance:      NormalizeAmount(entryValue(p.Summary, "Opening balance", "opening_balance")),
		ClosingBalance:      NormalizeAmount(entryValue(p.Summary, "Closing balance", "closing_balance")),
		TotalCredits:        NormalizeAmount(entryValue(p.Summary, "Total credits", "total_credits")),
		TotalDebits:         NormalizeAmount(entryValue(p.Summary, "Total debits", "total_debits")),
		AverageDailyBalance: NormalizeAmount(entryValue(p.Summary, "Average daily balance", "average_daily_balance")),
	}

	missing := []string{}
	if len(txns) == 0 {
		missing = append(missing, "transactions")
	}
	if summary.OpeningBalance == nil {
		missing = append(missing, "opening_balance")
	}
	if summary.ClosingBalance == nil {
		missing = append(missing, "closing_balance")
	}
	q.MissingSections = missing

	return Fields{
		AccountInfo:   account,
		SummaryValues: summary,
		Transactions:  txns,
	}
}

// entryValue returns the first non-nil value under any of the given keys.
func entryValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// entryString stringifies the first usable value under any of the given
// keys. Nil and empty values yield "".
func entryString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s == "" {
				continue
			}
			return s
		}
		if s := fmt.Sprint(v); s != "" {
			return s
		}
	}
	return ""
}

func entryStringPtr(m map[string]any, keys ...string) *string {
	if s := entryString(m, keys...); s != "" {
		return &s
	}
	return nil
}

func maskPtr(s *string) *string {
	if s == nil {
		return nil
	}
	masked := MaskAccountNumber(*s)
	return &masked
}

package statement

import (
	"iter"
	"regexp"
	"strings"
)

// txnLinePattern matches a date token followed within 120 characters by a
// signed decimal amount token. The middle quantifier is non-greedy so the
// amount group captures the first full number after the date instead of
// its trailing digits.
var txnLinePattern = regexp.MustCompile(
	`(\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{4}[-/]\d{1,2}[-/]\d{1,2}).{1,120}?(-?\d[\d,]*\.?\d{0,2})`)

// ScanTransactions scans raw text for transaction-shaped substrings and
// yields best-effort candidates: normalized date, normalized amount, and
// the whole matched span (trimmed) as description. A candidate is emitted
// only when both date and amount normalize. The sequence is lazy, finite
// and restartable; duplicates and false positives are filtered downstream
// by reconciliation.
func ScanTransactions(text string) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		rest := text
		for {
			loc := txnLinePattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			span := rest[loc[0]:loc[1]]
			date := NormalizeDate(rest[loc[2]:loc[3]])
			amount := NormalizeAmount(rest[loc[4]:loc[5]])
			if date != "" && amount != nil {
				candidate := Transaction{
					Date:        date,
					Description: strings.TrimSpace(span),
					Amount:      *amount,
				}
				if !yield(candidate) {
					return
				}
			}
			rest = rest[loc[1]:]
		}
	}
}

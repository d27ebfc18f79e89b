package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxInsights caps the number of observations emitted for one statement.
const MaxInsights = 8

var two = decimal.NewFromInt(2)

// LocalInsights derives short textual observations from a reconciled
// record. It is the fallback path when no external summarizer is
// available; rules run in a fixed order and the result is capped at
// MaxInsights entries.
func LocalInsights(f Fields) []string {
	var tips []string
	sv := f.SummaryValues

	if sv.OpeningBalance != nil && sv.ClosingBalance != nil {
		avg := sv.OpeningBalance.Add(*sv.ClosingBalance).Div(two).Round(2)
		tips = append(tips, fmt.Sprintf("Approx average balance ₹%s.", groupThousands(avg.StringFixed(2))))
	}
	if n := countByKeyword(f.Transactions, "atm"); n > 0 {
		tips = append(tips, fmt.Sprintf("ATM withdrawals: %d×.", n))
	}
	if n := countByKeyword(f.Transactions, "upi"); n > 0 {
		tips = append(tips, fmt.Sprintf("UPI transactions: %d×.", n))
	}
	if sv.TotalCredits != nil && sv.TotalDebits != nil && sv.TotalCredits.GreaterThan(*sv.TotalDebits) {
		tips = append(tips, "Net positive inflow; consider saving/investing surplus.")
	}
	if len(tips) == 0 {
		tips = append(tips, "No strong insights from parsed data.")
	}
	if len(tips) > MaxInsights {
		tips = tips[:MaxInsights]
	}
	return tips
}

func countByKeyword(txns []Transaction, keyword string) int {
	n := 0
	for _, t := range txns {
		if strings.Contains(strings.ToLower(t.Description), keyword) {
			n++
		}
	}
	return n
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

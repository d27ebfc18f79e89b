package statement

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyPattern = regexp.MustCompile(`[₹$€£]\s?`)
	nonNumeric      = regexp.MustCompile(`[^0-9.\-]`)
	datePattern     = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})|(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// NormalizeAmount converts a raw numeric token into a decimal value. It
// strips currency glyphs and thousands separators and keeps only digits,
// '.' and '-'. Malformed input returns nil, never an error.
func NormalizeAmount(raw any) *decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return &v
	case *decimal.Decimal:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		d := decimal.NewFromFloat(v)
		return &d
	case float32:
		return NormalizeAmount(float64(v))
	case int:
		d := decimal.NewFromInt(int64(v))
		return &d
	case int64:
		d := decimal.NewFromInt(v)
		return &d
	case json.Number:
		return normalizeAmountString(v.String())
	case string:
		return normalizeAmountString(v)
	default:
		return normalizeAmountString(fmt.Sprint(raw))
	}
}

func normalizeAmountString(s string) *decimal.Decimal {
	s = currencyPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")
	s = nonNumeric.ReplaceAllString(s, "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// NormalizeDate searches s for either a YYYY-MM-DD or DD-MM-YYYY pattern
// (with - or / separators) and reformats the first match into zero-padded
// ISO form. When no pattern matches the input is returned unchanged.
func NormalizeDate(s string) string {
	if s == "" {
		return s
	}
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	var year, month, day string
	if m[1] != "" {
		year, month, day = m[1], m[2], m[3]
	} else {
		day, month, year = m[4], m[5], m[6]
	}
	y, err1 := strconv.Atoi(year)
	mo, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return s
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
}

// MaskAccountNumber keeps only the last four digits of an account
// identifier in a fixed-format mask. Input with fewer than four digits is
// returned unchanged. Masking is idempotent.
func MaskAccountNumber(s string) string {
	digits := digitPattern.FindAllString(s, -1)
	if len(digits) < 4 {
		return s
	}
	return "XXXX-XXXX-XXXX-" + strings.Join(digits[len(digits)-4:], "")
}

// Package normalize turns raw CSV cell values into canonical types: decimal
// amounts and calendar dates. Normalization never fails a whole row over a
// bad amount; unparseable values become zero.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Default credit/debit indicator token sets for amount-type columns.
// Profiles may override them.
var (
	DefaultCreditIndicators = []string{"C", "CR", "CREDIT"}
	DefaultDebitIndicators  = []string{"D", "DR", "DEBIT"}
)

// Amount parses a raw amount cell into a decimal. It strips currency
// symbols, handles parenthesized negatives, and disambiguates thousands vs
// decimal separators:
//
//	"1.234,56"  -> 1234.56   (separator appearing last is the decimal point)
//	"1,234.56"  -> 1234.56
//	"1234,56"   -> 1234.56   (single comma followed by two digits)
//	"1,000,000" -> 1000000
//	"1.000.000" -> 1000000   (multiple dots are grouping)
//	"(100.00)"  -> -100.00
//
// An unparseable value yields zero, never an error.
func Amount(raw string) decimal.Decimal {
	s := stripToAmountChars(raw)
	if s == "" {
		return decimal.Zero
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	s = resolveSeparators(s)

	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}

	// Last resort: keep digits, minus, and dot only.
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' || c == '-' || c == '.' {
			b.WriteRune(c)
		}
	}
	if d, err := decimal.NewFromString(b.String()); err == nil {
		return d
	}
	return decimal.Zero
}

// stripToAmountChars keeps digits and the separator characters ". , - ( ) +".
func stripToAmountChars(raw string) string {
	var b strings.Builder
	for _, c := range strings.TrimSpace(raw) {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '.' || c == ',' || c == '-' || c == '(' || c == ')' || c == '+':
			b.WriteRune(c)
		}
	}
	return b.String()
}

// resolveSeparators rewrites the string so that '.' is the only decimal
// separator. When both separators are present, the one appearing last is
// the decimal point. A lone comma followed by exactly two digits is a
// decimal separator; any other comma usage is grouping. Multiple dots are
// grouping; a single dot is a decimal point.
func resolveSeparators(s string) string {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if strings.Count(s, ",") == 1 {
			parts := strings.Split(s, ",")
			if len(parts[len(parts)-1]) == 2 {
				s = strings.ReplaceAll(s, ",", ".")
				break
			}
		}
		s = strings.ReplaceAll(s, ",", "")
	case hasDot:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// ApplyIndicator forces the amount's sign from a credit/debit indicator
// token, overriding any sign implied by the raw text. Unknown tokens leave
// the amount unchanged. Comparison is case-insensitive against the given
// token sets (nil falls back to the defaults).
func ApplyIndicator(amount decimal.Decimal, indicator string, creditTokens, debitTokens []string) decimal.Decimal {
	token := strings.ToUpper(strings.TrimSpace(indicator))
	if token == "" {
		return amount
	}
	if len(creditTokens) == 0 {
		creditTokens = DefaultCreditIndicators
	}
	if len(debitTokens) == 0 {
		debitTokens = DefaultDebitIndicators
	}
	if containsToken(debitTokens, token) {
		return amount.Abs().Neg()
	}
	if containsToken(creditTokens, token) {
		return amount.Abs()
	}
	return amount
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if strings.ToUpper(strings.TrimSpace(t)) == token {
			return true
		}
	}
	return false
}

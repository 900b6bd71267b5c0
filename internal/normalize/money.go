package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	moneyNoiseRe   = regexp.MustCompile(`[,\s]`)
	moneyNumericRe = regexp.MustCompile(`-?\d+\.?\d*`)
)

// ParseMoney normalizes a raw money string to a signed decimal. Thousands
// separators are stripped; a trailing CR marker or surrounding parentheses
// flips the sign to negative (credit/refund). No sign information means
// positive (debit).
func ParseMoney(value string) (decimal.Decimal, bool) {
	cleaned := moneyNoiseRe.ReplaceAllString(strings.TrimSpace(value), "")
	if cleaned == "" {
		return decimal.Zero, false
	}

	upper := strings.ToUpper(cleaned)
	isCredit := strings.Contains(upper, "CR")
	if isCredit {
		cleaned = strings.NewReplacer("CR", "", "cr", "", "Cr", "", "cR", "").Replace(cleaned)
	}

	isParenthesized := strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")")
	if isParenthesized {
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	numeric := moneyNumericRe.FindString(cleaned)
	if numeric == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(numeric)
	if err != nil {
		return decimal.Zero, false
	}

	if isCredit || isParenthesized {
		amount = amount.Abs().Neg()
	}

	return amount, true
}

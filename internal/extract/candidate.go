package extract

import (
	"regexp"
	"strings"

	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/shopspring/decimal"
)

// Patterns shared by the strategies. All operate on single physical lines
// from the normalized line view.
var (
	// "17 Jul 18 Jul CHEERS - PARKLANE S SINGAPORE SG"
	txLineRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+([A-Za-z]{3})\s+(\d{1,2})\s+([A-Za-z]{3})\s+(.+?)\s+SINGAPORE\s+SG\s*$`)

	// "Transaction Ref 74508985217021376353487"
	refLineRe = regexp.MustCompile(`(?i)Transaction\s+Ref(?:erence)?\s*:?\s*(\d{6,})`)

	// A line that is purely a decimal amount, optionally "CR"-suffixed.
	amountLineRe = regexp.MustCompile(`(?i)^\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?\s*$`)

	// A line that is purely a truncated "17 Jul" date.
	bareDayMonthRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s*$`)

	// One record on one physical line: "17 Jul GRAB SINGAPORE 23.40 CR".
	singleLineRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(.+?)\s+([\d,]+\.\d{2})\s*(CR)?\s*$`)

	pureNumberRe = regexp.MustCompile(`^[\d,.\s/*#-]+$`)

	instalmentMarkRe  = regexp.MustCompile(`#?\d+/\d+~~`)
	merchantSuffixRe  = regexp.MustCompile(`(?i)\s+(SINGAPORE\s+SG|SINGAPORE|SG)\s*$`)
	fxPrefixRe        = regexp.MustCompile(`^([A-Z]{3})\s+(\d+\.?\d*)`)
	paymentKeywordsRe = regexp.MustCompile(`(?i)\b(PAYMENT|CREDIT|REFUND|REVERSAL)\b`)
)

// headerNoisePrefixes rejects header and summary rows misread as merchants.
// Prefix match, case-insensitive.
var headerNoisePrefixes = []string{
	"BALANCE",
	"CREDIT CARD",
	"STATEMENT DATE",
	"PAGE",
	"TOTAL",
	"SUBTOTAL",
	"DATE",
	"DESCRIPTION",
	"AMOUNT",
	"TRANSACTION",
	"POSTING",
}

// cleanMerchant trims location suffixes and instalment markers and collapses
// whitespace. Display cleanup only; grouping uses the normalization key.
func cleanMerchant(raw string) string {
	s := instalmentMarkRe.ReplaceAllString(raw, "")
	s = merchantSuffixRe.ReplaceAllString(s, "")
	return normalize.CollapseWhitespace(s)
}

// validMerchant applies the common rejection rule: the cleaned string must
// be at least 3 characters and must not start with a header/noise prefix.
// Returns the cleaned merchant when it survives.
func validMerchant(raw string) (string, bool) {
	cleaned := cleanMerchant(raw)
	if len(cleaned) < 3 {
		return "", false
	}
	upper := strings.ToUpper(cleaned)
	for _, prefix := range headerNoisePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return "", false
		}
	}
	return cleaned, true
}

// parseAmountLine parses a pure-amount line, honoring the CR credit marker.
func parseAmountLine(line string) (decimal.Decimal, bool) {
	m := amountLineRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}
	amount, ok := normalize.ParseMoney(m[1])
	if !ok {
		return decimal.Zero, false
	}
	if m[2] != "" {
		amount = amount.Abs().Neg()
	}
	return amount, true
}

// typeOf tags payments/credits apart from purchases.
func typeOf(merchant string, amount decimal.Decimal) models.TxType {
	if paymentKeywordsRe.MatchString(merchant) || amount.IsNegative() {
		return models.TypePayment
	}
	return models.TypePurchase
}

// fxCurrencies are the foreign-currency prefixes recognized in descriptions.
var fxCurrencies = map[string]bool{
	"USD": true, "AUD": true, "EUR": true, "GBP": true,
	"JPY": true, "MYR": true, "THB": true, "IDR": true,
}

// extractFX reads an inline original-currency note such as "USD 12.99 ..."
// from the start of a merchant description.
func extractFX(merchant string) *models.FXInfo {
	m := fxPrefixRe.FindStringSubmatch(merchant)
	if m == nil || !fxCurrencies[m[1]] {
		return nil
	}
	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return nil
	}
	return &models.FXInfo{Currency: m[1], OriginalAmount: amount}
}

// finalize fills the derived fields every strategy shares.
func finalize(tx models.Transaction) models.Transaction {
	tx.Type = typeOf(tx.Merchant, tx.Amount)
	tx.FX = extractFX(tx.Merchant)
	return tx
}

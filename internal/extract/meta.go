package extract

import (
	"regexp"
	"strings"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/shopspring/decimal"
)

// Header and summary anchors. These search the collapsed view, so labels
// split across physical lines still match.
var (
	paymentDueRe  = regexp.MustCompile(`(?i)Payment\s+Due\s+Date\s*:?\s*(\d{1,2})\s+([A-Za-z]{3,9})\s+(\d{4})`)
	cardMaskedRe  = regexp.MustCompile(`(?i)\d{4}[-\s]?[\dX*]{4}[-\s]?[\dX*]{4}[-\s]?\d{4}`)
	approvedRe    = regexp.MustCompile(`(?i)Approved\s+Credit\s+Limit\s*:?\s*\(?([\d,]+\.\d{2})\)?`)
	availableRe   = regexp.MustCompile(`(?i)Available\s+Credit\s+Limit\s*:?\s*\(?([\d,]+\.\d{2})\)?`)

	previousBalRe = regexp.MustCompile(`(?i)(?:Previous|Last)\s+Balance\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	// Plural only, so "Minimum Payment : 50.00" can never bind as the
	// Payments total on a statement lacking a Payments line.
	paymentsRe    = regexp.MustCompile(`(?i)\bPayments\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	creditsRe     = regexp.MustCompile(`(?i)Credits?\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	purchasesRe   = regexp.MustCompile(`(?i)(?:New\s+Transactions|Purchases)\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	cashAdvanceRe = regexp.MustCompile(`(?i)Cash\s+Advance\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	chargesRe     = regexp.MustCompile(`(?i)(?:Interest\s+)?Charges\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	newBalanceRe  = regexp.MustCompile(`(?i)(?:New|Current)\s+Balance\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
	minPaymentRe  = regexp.MustCompile(`(?i)Minimum\s+Payment\s*(?:Due)?\s*:?\s*\(?([\d,]+\.\d{2})\)?\s*(CR)?`)
)

// DetectTemplate recognizes the statement layout. Only the Standard
// Chartered Smart card layout is known; anything else returns empty and the
// cascade still runs, just without a template tag.
func DetectTemplate(doc normalize.Document) string {
	upper := strings.ToUpper(doc.Collapsed)
	if strings.Contains(upper, "STATEMENT DATE") && strings.Contains(upper, "TRANSACTION REF") {
		return models.TemplateSCBSmartV1
	}
	return ""
}

// Meta extracts the header block. Missing anchors leave zero values and are
// logged, never fatal.
func Meta(doc normalize.Document, log logging.Logger) models.StatementMeta {
	if log == nil {
		log = logging.GetLogger()
	}

	meta := models.StatementMeta{
		Bank:           models.DefaultBank,
		Currency:       models.DefaultCurrency,
		TemplateID:     DetectTemplate(doc),
		StatementDate:  doc.StatementDate,
		StatementYear:  doc.StatementYear,
		YearFromHeader: doc.YearFromHeader,
	}

	if m := paymentDueRe.FindStringSubmatch(doc.Collapsed); m != nil {
		if date, ok := normalize.ParseDayMonthYear(m[1], m[2], m[3]); ok {
			meta.PaymentDueDate = date
		}
	}
	// Middle groups may be fully or partially masked. A mask character must
	// be present so plain 16-digit numbers are never taken for a card.
	for _, m := range cardMaskedRe.FindAllString(doc.Collapsed, -1) {
		if strings.ContainsAny(m, "Xx*") {
			meta.CardMasked = m
			break
		}
	}
	if m := approvedRe.FindStringSubmatch(doc.Collapsed); m != nil {
		if v, ok := normalize.ParseMoney(m[1]); ok {
			meta.ApprovedLimit = v
		}
	}
	if m := availableRe.FindStringSubmatch(doc.Collapsed); m != nil {
		if v, ok := normalize.ParseMoney(m[1]); ok {
			meta.AvailableLimit = v
		}
	}

	if meta.TemplateID == "" {
		log.Debug("Statement template not recognized")
	}

	return meta
}

// Summary extracts the account totals block and checks the balance
// equation. An inconsistent summary is reported and returned as-is.
func Summary(doc normalize.Document, log logging.Logger) models.StatementSummary {
	if log == nil {
		log = logging.GetLogger()
	}

	summary := models.StatementSummary{
		PreviousBalance:   summaryAmount(doc.Collapsed, previousBalRe),
		Payments:          summaryAmount(doc.Collapsed, paymentsRe),
		Credits:           summaryAmount(doc.Collapsed, creditsRe),
		Purchases:         summaryAmount(doc.Collapsed, purchasesRe),
		CashAdvance:       summaryAmount(doc.Collapsed, cashAdvanceRe),
		Charges:           summaryAmount(doc.Collapsed, chargesRe),
		NewBalance:        summaryAmount(doc.Collapsed, newBalanceRe),
		MinimumPaymentDue: summaryAmount(doc.Collapsed, minPaymentRe),
	}

	if !summary.NewBalance.IsZero() && !summary.Consistent() {
		log.Warn("Statement summary fails the balance equation",
			logging.Field{Key: logging.FieldAmount, Value: summary.NewBalance.String()})
	}

	return summary
}

func summaryAmount(collapsed string, re *regexp.Regexp) decimal.Decimal {
	m := re.FindStringSubmatch(collapsed)
	if m == nil {
		return decimal.Zero
	}
	v, ok := normalize.ParseMoney(m[1])
	if !ok {
		return decimal.Zero
	}
	if len(m) > 2 && m[2] != "" {
		v = v.Abs().Neg()
	}
	return v
}

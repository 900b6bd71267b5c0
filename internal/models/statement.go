package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementMeta holds header fields extracted from the first page of a
// statement. Fields that cannot be located degrade to zero values.
type StatementMeta struct {
	Bank             string          `json:"bank"`
	TemplateID       string          `json:"templateId"`
	StatementDate    time.Time       `json:"statementDate"`
	PaymentDueDate   time.Time       `json:"paymentDueDate"`
	CardMasked       string          `json:"cardMasked"`
	ApprovedLimit    decimal.Decimal `json:"approvedCreditLimit"`
	AvailableLimit   decimal.Decimal `json:"availableCreditLimit"`
	Currency         string          `json:"currency"`
	YearFromHeader   bool            `json:"-"`
	StatementYear    int             `json:"-"`
}

// StatementSummary holds the account totals block. All values are signed the
// way the statement prints them.
type StatementSummary struct {
	PreviousBalance   decimal.Decimal `json:"previousBalance"`
	Payments          decimal.Decimal `json:"payments"`
	Credits           decimal.Decimal `json:"credits"`
	Purchases         decimal.Decimal `json:"purchases"`
	CashAdvance       decimal.Decimal `json:"cashAdvance"`
	Charges           decimal.Decimal `json:"charges"`
	NewBalance        decimal.Decimal `json:"newBalance"`
	MinimumPaymentDue decimal.Decimal `json:"minimumPaymentDue"`
}

// Instalment is one active instalment plan from the statement's plan
// summary table. Billed/Total count months, as printed ("4/6").
type Instalment struct {
	CardMasked         string          `json:"cardMasked"`
	Merchant           string          `json:"merchant"`
	Billed             int             `json:"billed"`
	Total              int             `json:"total"`
	RemainingMonths    int             `json:"remainingMonths"`
	PrincipalAmount    decimal.Decimal `json:"principalAmount"`
	CurrentMonthBilled decimal.Decimal `json:"currentMonthBilled"`
	RemainingPrincipal decimal.Decimal `json:"remainingPrincipal"`
}

// RewardsByCard is one row of the rewards points table.
type RewardsByCard struct {
	CardMasked      string    `json:"cardMasked"`
	PreviousBalance int       `json:"previousBalance"`
	Earned          int       `json:"earned"`
	Redeemed        int       `json:"redeemed"`
	Adjustment      int       `json:"adjustment"`
	CurrentBalance  int       `json:"currentBalance"`
	ExpiryDate      time.Time `json:"expiryDate"`
}

// RewardsSummary holds the statement's rewards points section. A statement
// without the section yields the zero value.
type RewardsSummary struct {
	TotalAwarded   int             `json:"totalAwardedInStatement"`
	BroughtForward int             `json:"totalPointsBroughtForward"`
	UsedOrExpired  int             `json:"pointsUsedOrExpired"`
	Adjustment     int             `json:"pointsAdjustment"`
	TotalAvailable int             `json:"totalPointsAvailable"`
	ByCard         []RewardsByCard `json:"byCard"`
}

// balanceTolerance is the currency epsilon for the balance equation.
var balanceTolerance = decimal.NewFromFloat(0.01)

// Consistent checks the balance equation
// previous + payments + credits + purchases + cash advance + charges == new
// within one cent. An inconsistent summary is a warning condition, never a
// parse failure.
func (s *StatementSummary) Consistent() bool {
	calculated := s.PreviousBalance.
		Add(s.Payments).
		Add(s.Credits).
		Add(s.Purchases).
		Add(s.CashAdvance).
		Add(s.Charges)
	return calculated.Sub(s.NewBalance).Abs().LessThanOrEqual(balanceTolerance)
}

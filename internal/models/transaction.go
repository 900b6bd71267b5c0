// Package models provides the data structures shared across the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provenance records which extraction path produced a transaction, so
// downstream consumers can branch on trust level without re-parsing notes.
type Provenance string

const (
	// ProvenanceStructural marks records read from a fully structural match
	// where merchant and amount came from the same matched block.
	ProvenanceStructural Provenance = "structural"

	// ProvenanceReferenceLinked marks records recovered by searching around a
	// transaction-reference anchor.
	ProvenanceReferenceLinked Provenance = "reference-linked"

	// ProvenanceEstimated marks records whose amount is a placeholder guess
	// and must be verified by the user.
	ProvenanceEstimated Provenance = "estimated"

	// ProvenancePositional marks records from the low-confidence line-scan and
	// positional-alignment fallbacks.
	ProvenancePositional Provenance = "positional"
)

// TxType distinguishes purchases from payments/credits.
type TxType string

const (
	TypePurchase TxType = "purchase"
	TypePayment  TxType = "payment"
)

// SplitPart is one person's declared share of a transaction. Shares are not
// required to sum to the parent transaction amount; the ledger reconciles
// mismatches proportionally.
type SplitPart struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FXInfo carries the original currency details for foreign transactions.
type FXInfo struct {
	Currency       string          `json:"currency"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
}

// Transaction is the central entity of the system. Amount is signed:
// positive means the statement holder owes money (debit), negative is a
// credit or refund.
type Transaction struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	Merchant   string          `json:"merchant"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Category   string          `json:"category,omitempty"`
	GroupID    string          `json:"groupId,omitempty"`
	PaidBy     string          `json:"paidBy"`
	Splits     []SplitPart     `json:"splits,omitempty"`
	Reviewed   bool            `json:"reviewed"`
	Deleted    bool            `json:"deleted"`
	Provenance Provenance      `json:"provenance"`
	Type       TxType          `json:"type"`
	Reference  string          `json:"reference,omitempty"`
	FX         *FXInfo         `json:"fx,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// Pending reports whether the transaction still needs attention: no group,
// no splits, not reviewed. Derived, never stored.
func (t *Transaction) Pending() bool {
	return t.GroupID == "" && len(t.Splits) == 0 && !t.Reviewed
}

// IsCredit reports whether the transaction is a credit or refund.
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsNegative()
}

// Estimated reports whether the amount is a placeholder requiring user
// verification.
func (t *Transaction) Estimated() bool {
	return t.Provenance == ProvenanceEstimated
}

// DeclaredSplitSum returns the sum of all declared shares.
func (t *Transaction) DeclaredSplitSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range t.Splits {
		sum = sum.Add(p.Amount)
	}
	return sum
}

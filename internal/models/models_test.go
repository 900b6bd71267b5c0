package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPendingIsDerived(t *testing.T) {
	tx := Transaction{}
	assert.True(t, tx.Pending())

	grouped := Transaction{GroupID: "g"}
	assert.False(t, grouped.Pending())

	split := Transaction{Splits: []SplitPart{{Name: "A", Amount: decimal.NewFromInt(1)}}}
	assert.False(t, split.Pending())

	reviewed := Transaction{Reviewed: true}
	assert.False(t, reviewed.Pending())
}

func TestIsCreditFollowsSign(t *testing.T) {
	credit := Transaction{Amount: decimal.NewFromFloat(-23.40)}
	assert.True(t, credit.IsCredit())

	debit := Transaction{Amount: decimal.NewFromFloat(10.00)}
	assert.False(t, debit.IsCredit())
}

func TestSummaryConsistent(t *testing.T) {
	s := StatementSummary{
		PreviousBalance: decimal.NewFromFloat(1200.00),
		Payments:        decimal.NewFromFloat(-1200.00),
		Purchases:       decimal.NewFromFloat(2600.00),
		NewBalance:      decimal.NewFromFloat(2600.00),
	}
	assert.True(t, s.Consistent())

	// One cent off stays within tolerance.
	s.NewBalance = decimal.NewFromFloat(2600.01)
	assert.True(t, s.Consistent())

	s.NewBalance = decimal.NewFromFloat(2700.00)
	assert.False(t, s.Consistent())
}

func TestGroupMatches(t *testing.T) {
	amountGroup := Group{ID: "1", MerchantKey: "NETFLIX.COM", AmountKey: "15.90"}
	assert.True(t, amountGroup.Matches("NETFLIX.COM", "15.90"))
	assert.False(t, amountGroup.Matches("NETFLIX.COM", "19.90"))
	assert.False(t, amountGroup.Matches("SPOTIFY", "15.90"))

	merchantGroup := Group{ID: "2", MerchantKey: "GRAB *TRIP ###"}
	assert.True(t, merchantGroup.Matches("GRAB *TRIP ###", "12.40"))
	assert.True(t, merchantGroup.Matches("GRAB *TRIP ###", "99.00"))

	unkeyed := Group{ID: "3"}
	assert.False(t, unkeyed.Matches("ANYTHING", "1.00"))
}

func TestDeclaredSplitSum(t *testing.T) {
	tx := Transaction{Splits: []SplitPart{
		{Name: "A", Amount: decimal.NewFromFloat(3.00)},
		{Name: "B", Amount: decimal.NewFromFloat(3.00)},
	}}
	assert.Equal(t, "6", tx.DeclaredSplitSum().String())
	assert.Equal(t, "0", (&Transaction{}).DeclaredSplitSum().String())
}

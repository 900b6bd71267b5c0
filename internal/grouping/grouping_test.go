package grouping

import (
	"fmt"
	"testing"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id, merchant string, amount float64) models.Transaction {
	return models.Transaction{
		ID:       id,
		Merchant: merchant,
		Amount:   decimal.NewFromFloat(amount),
	}
}

func TestSuggestRequiresThreeOccurrences(t *testing.T) {
	txs := []models.Transaction{
		tx("1", "NETFLIX.COM", 15.90),
		tx("2", "NETFLIX.COM", 15.90),
	}

	assert.Empty(t, Suggest(txs, &logging.MockLogger{}))

	txs = append(txs, tx("3", "NETFLIX.COM", 15.90))
	suggestions := Suggest(txs, &logging.MockLogger{})

	require.Len(t, suggestions, 1)
	// All members, not just the third, are assignable.
	assert.ElementsMatch(t, []string{"1", "2", "3"}, suggestions[0].MemberIDs)
	assert.Equal(t, "NETFLIX.COM", suggestions[0].Group.Name)
	assert.NotEmpty(t, suggestions[0].Group.AmountKey)
}

func TestAmountQualifiedGroupSuppressesMerchantOnly(t *testing.T) {
	txs := []models.Transaction{
		tx("1", "NETFLIX.COM", 15.90),
		tx("2", "NETFLIX.COM", 15.90),
		tx("3", "NETFLIX.COM", 15.90),
		tx("4", "NETFLIX.COM", 19.90),
	}

	suggestions := Suggest(txs, &logging.MockLogger{})

	require.Len(t, suggestions, 1)
	assert.Equal(t, "15.90", suggestions[0].Group.AmountKey)
}

func TestMerchantOnlyGroupForVaryingAmounts(t *testing.T) {
	txs := []models.Transaction{
		tx("1", "GRAB *TRIP 111", 12.40),
		tx("2", "GRAB *TRIP 222", 8.90),
		tx("3", "GRAB *TRIP 333", 21.00),
	}

	suggestions := Suggest(txs, &logging.MockLogger{})

	require.Len(t, suggestions, 1)
	assert.Empty(t, suggestions[0].Group.AmountKey)
	assert.Equal(t, "GRAB *TRIP ###", suggestions[0].Group.MerchantKey)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, suggestions[0].MemberIDs)
}

func TestSuggestIgnoresDeletedAndGroupedTransactions(t *testing.T) {
	deleted := tx("1", "NETFLIX.COM", 15.90)
	deleted.Deleted = true
	grouped := tx("2", "NETFLIX.COM", 15.90)
	grouped.GroupID = "existing"

	txs := []models.Transaction{
		deleted,
		grouped,
		tx("3", "NETFLIX.COM", 15.90),
	}

	assert.Empty(t, Suggest(txs, &logging.MockLogger{}))
}

func TestGroupMatchesLaterArrivals(t *testing.T) {
	var txs []models.Transaction
	for i := 1; i <= 3; i++ {
		txs = append(txs, tx(fmt.Sprintf("%d", i), "SPOTIFY P2E4A8", 9.90))
	}

	suggestions := Suggest(txs, &logging.MockLogger{})
	require.Len(t, suggestions, 1)
	group := suggestions[0].Group

	later := tx("99", "SPOTIFY P9E1A2", 9.90)
	merchantKey, amountKey := Keys(later)
	assert.True(t, group.Matches(merchantKey, amountKey))

	differentAmount := tx("100", "SPOTIFY P9E1A2", 14.90)
	merchantKey, amountKey = Keys(differentAmount)
	assert.False(t, group.Matches(merchantKey, amountKey))
}

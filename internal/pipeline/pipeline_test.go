package pipeline

import (
	"testing"
	"time"

	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(log logging.Logger) *Pipeline {
	return New(classify.New(log), Options{Currency: "SGD", Holder: "me"}, log)
}

func TestProcessFullStatement(t *testing.T) {
	text := "Statement Date : 28 Jul 2025\n" +
		"17 Jul 18 Jul CHEERS - PARKLANE S SINGAPORE SG\n" +
		"Transaction Ref 74508985217021376353487\n" +
		"10.00\n"

	log := &logging.MockLogger{}
	result := newPipeline(log).Process(text)

	require.Len(t, result.Transactions, 1)
	got := result.Transactions[0]
	assert.Equal(t, time.Date(2025, time.July, 17, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "CHEERS - PARKLANE S", got.Merchant)
	assert.Equal(t, "10", got.Amount.String())
	assert.Equal(t, "SGD", got.Currency)
	assert.Equal(t, "me", got.PaidBy)
	assert.Equal(t, models.CategoryGroceries, got.Category)
	assert.Equal(t, models.ProvenanceStructural, got.Provenance)

	assert.Equal(t, "transaction-block", result.Strategy)
	assert.Equal(t, models.TemplateSCBSmartV1, result.Meta.TemplateID)
	assert.Equal(t, 2025, result.Meta.StatementYear)
	assert.True(t, result.Meta.YearFromHeader)
}

func TestProcessCarriesInstalmentsAndRewards(t *testing.T) {
	text := "Statement Date : 28 Jul 2025\n" +
		"17 Jul 18 Jul CHEERS - PARKLANE S SINGAPORE SG\n" +
		"Transaction Ref 74508985217021376353487\n" +
		"10.00\n" +
		"INSTALMENT PLAN SUMMARY\n" +
		"4864-18XX-XXXX-1669 KAPLAN HIGHER EDUCA 4/6 2 4,000.00 666.66 1,333.36\n" +
		"Total Points Awarded in this Statement : 1,913\n" +
		"Total Points Available : 9,646\n" +
		"360 REWARDS POINTS SUMMARY\n" +
		"4864-18XX-XXXX-1669 7,733 1,913 0 0 9,646 11 Aug 2026\n"

	result := newPipeline(&logging.MockLogger{}).Process(text)

	require.Len(t, result.Instalments, 1)
	assert.Equal(t, "KAPLAN HIGHER EDUCA", result.Instalments[0].Merchant)
	assert.Equal(t, 1913, result.Rewards.TotalAwarded)
	require.Len(t, result.Rewards.ByCard, 1)
	assert.Equal(t, 9646, result.Rewards.ByCard[0].CurrentBalance)
}

func TestProcessSuggestsGroups(t *testing.T) {
	text := "Statement Date : 28 Jul 2025\n" +
		"01 Jul 02 Jul NETFLIX.COM SINGAPORE SG\n" +
		"Transaction Ref 111111111111\n" +
		"15.90\n" +
		"08 Jul 09 Jul NETFLIX.COM SINGAPORE SG\n" +
		"Transaction Ref 222222222222\n" +
		"15.90\n" +
		"15 Jul 16 Jul NETFLIX.COM SINGAPORE SG\n" +
		"Transaction Ref 333333333333\n" +
		"15.90\n"

	result := newPipeline(&logging.MockLogger{}).Process(text)

	require.Len(t, result.Transactions, 3)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "NETFLIX.COM", result.Groups[0].Name)
}

func TestProcessNeverFails(t *testing.T) {
	result := newPipeline(&logging.MockLogger{}).Process("complete garbage with no structure")

	assert.Empty(t, result.Transactions)
	assert.Empty(t, result.Strategy)
	assert.Empty(t, result.Groups)
}

func TestProcessEstimatedResultsAreObservable(t *testing.T) {
	// Reference markers without any amount lines anywhere force the
	// estimation fallback; the guessed amounts must be distinguishable
	// from a confident parse.
	text := "Statement Date : 28 Jul 2025\n" +
		"GRAB HOLDINGS Transaction Ref 123456789012\n"

	result := newPipeline(&logging.MockLogger{}).Process(text)

	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Estimated())
	assert.NotEmpty(t, result.Transactions[0].Notes)
	assert.Equal(t, "reference-estimate", result.Strategy)
}

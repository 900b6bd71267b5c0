package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTx() models.Transaction {
	return models.Transaction{
		ID:         "abc",
		Date:       time.Date(2025, time.July, 17, 0, 0, 0, 0, time.UTC),
		Merchant:   "CHEERS - PARKLANE S",
		Amount:     decimal.NewFromFloat(10.00),
		Currency:   "SGD",
		Category:   models.CategoryGroceries,
		PaidBy:     "me",
		Type:       models.TypePurchase,
		Provenance: models.ProvenanceStructural,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Transaction{sampleTx()}, ','))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Merchant,Amount,Currency,Category,Type,Provenance,PaidBy,GroupID,Reference,Notes", lines[0])
	assert.Contains(t, lines[1], "2025-07-17")
	assert.Contains(t, lines[1], "CHEERS - PARKLANE S")
	assert.Contains(t, lines[1], "10.00")
}

func TestWriteCSVSkipsDeleted(t *testing.T) {
	deleted := sampleTx()
	deleted.Deleted = true

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Transaction{deleted}, ','))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1) // header only
}

func TestWriteCSVCustomDelimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Transaction{sampleTx()}, ';'))

	assert.True(t, strings.HasPrefix(buf.String(), "Date;Merchant;"))
}

func TestDecodeTransactionsBareArray(t *testing.T) {
	data := []byte(`[{"id":"1","merchant":"CHEERS","amount":"10","paidBy":"me"}]`)

	txs, err := DecodeTransactions(data)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "CHEERS", txs[0].Merchant)
	assert.Equal(t, "10", txs[0].Amount.String())
}

func TestDecodeTransactionsEnvelope(t *testing.T) {
	data := []byte(`{"strategy":"transaction-block","transactions":[{"id":"1","merchant":"GRAB","amount":"23.4"}]}`)

	txs, err := DecodeTransactions(data)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "GRAB", txs[0].Merchant)
}

func TestDecodeTransactionsRejectsGarbage(t *testing.T) {
	_, err := DecodeTransactions([]byte("not json"))
	require.Error(t, err)

	var parseErr *parsererror.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "transactions", parseErr.Field)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []models.Transaction{sampleTx()}))

	txs, err := DecodeTransactions(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "CHEERS - PARKLANE S", txs[0].Merchant)
}

package extract

import (
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/google/uuid"
)

// BlockStrategy is the highest-confidence extractor. It matches a strictly
// contiguous three-line block:
//
//	<transaction-date> <posting-date> <merchant> SINGAPORE SG
//	Transaction Ref <number>
//	<amount>[CR]
//
// Merchant and amount are read from the same matched block, so an amount can
// never bind to a neighboring record. The posting date is discarded.
type BlockStrategy struct{}

func (s *BlockStrategy) Name() string { return "transaction-block" }

func (s *BlockStrategy) Extract(doc normalize.Document) []models.Transaction {
	var txs []models.Transaction

	for i := 0; i+2 < len(doc.Lines); i++ {
		head := txLineRe.FindStringSubmatch(doc.Lines[i])
		if head == nil {
			continue
		}
		ref := refLineRe.FindStringSubmatch(doc.Lines[i+1])
		if ref == nil {
			continue
		}
		amount, ok := parseAmountLine(doc.Lines[i+2])
		if !ok {
			continue
		}

		merchant, ok := validMerchant(head[5])
		if !ok {
			continue
		}
		// A date that fails to parse invalidates the whole record.
		date, ok := normalize.ParseDayMonth(head[1], head[2], doc.StatementYear)
		if !ok {
			continue
		}

		txs = append(txs, finalize(models.Transaction{
			ID:         uuid.NewString(),
			Date:       date,
			Merchant:   merchant,
			Amount:     amount,
			Reference:  ref[1],
			Provenance: models.ProvenanceStructural,
		}))
		i += 2
	}

	return txs
}

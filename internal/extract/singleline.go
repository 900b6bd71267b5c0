package extract

import (
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/google/uuid"
)

// SingleLineStrategy handles renderings where an entire record lands on one
// physical line: "17 Jul GRAB SINGAPORE 23.40 CR". Each line is independent.
type SingleLineStrategy struct{}

func (s *SingleLineStrategy) Name() string { return "single-line" }

func (s *SingleLineStrategy) Extract(doc normalize.Document) []models.Transaction {
	var txs []models.Transaction

	for _, line := range doc.Lines {
		m := singleLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, ok := normalize.ParseDayMonth(m[1], m[2], doc.StatementYear)
		if !ok {
			continue
		}
		merchant, ok := validMerchant(m[3])
		if !ok {
			continue
		}
		amount, ok := normalize.ParseMoney(m[4])
		if !ok {
			continue
		}
		if m[5] != "" {
			amount = amount.Abs().Neg()
		}
		txs = append(txs, finalize(models.Transaction{
			ID:         uuid.NewString(),
			Date:       date,
			Merchant:   merchant,
			Amount:     amount,
			Provenance: models.ProvenancePositional,
		}))
	}

	return txs
}

package extract

import (
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/google/uuid"
)

const (
	refLookBack    = 3
	refLookForward = 5
)

// ReferenceStrategy recovers records anchored on transaction-reference
// lines when the strict block layout is broken by wrapped descriptions or
// other intervening lines. For every reference marker it searches up to 3
// lines backward for the date/merchant line and up to 5 lines forward for a
// pure amount line.
type ReferenceStrategy struct{}

func (s *ReferenceStrategy) Name() string { return "reference-anchored" }

func (s *ReferenceStrategy) Extract(doc normalize.Document) []models.Transaction {
	var txs []models.Transaction
	usedAmounts := make(map[int]bool)

	for i, line := range doc.Lines {
		ref := refLineRe.FindStringSubmatch(line)
		if ref == nil {
			continue
		}

		var head []string
		for j := i - 1; j >= 0 && j >= i-refLookBack; j-- {
			if m := txLineRe.FindStringSubmatch(doc.Lines[j]); m != nil {
				head = m
				break
			}
		}
		if head == nil {
			continue
		}

		amountIdx := -1
		for k := i + 1; k < len(doc.Lines) && k <= i+refLookForward; k++ {
			if usedAmounts[k] {
				continue
			}
			if amountLineRe.MatchString(doc.Lines[k]) {
				amountIdx = k
				break
			}
		}
		if amountIdx < 0 {
			continue
		}
		amount, ok := parseAmountLine(doc.Lines[amountIdx])
		if !ok {
			continue
		}

		merchant, ok := validMerchant(head[5])
		if !ok {
			continue
		}
		date, ok := normalize.ParseDayMonth(head[1], head[2], doc.StatementYear)
		if !ok {
			continue
		}

		usedAmounts[amountIdx] = true
		txs = append(txs, finalize(models.Transaction{
			ID:         uuid.NewString(),
			Date:       date,
			Merchant:   merchant,
			Amount:     amount,
			Reference:  ref[1],
			Provenance: models.ProvenanceReferenceLinked,
		}))
	}

	return txs
}

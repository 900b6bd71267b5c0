package extract

import (
	"regexp"
	"time"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// A row carrying only dates and an amount, no description:
// "17 Jul 10.00", "17 Jul 18 Jul 1,234.56 CR".
var dateAmountRowRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)(?:\s+\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec))?\s+\(?([\d,]+\.\d{2})\)?\s*(CR)?\s*$`)

// previousBalanceCutoff marks a leading carried-over balance row, which is
// large relative to individual card transactions.
var previousBalanceCutoff = decimal.NewFromFloat(1000.00)

type dateAmountRow struct {
	date   time.Time
	amount decimal.Decimal
}

// PositionalStrategy is the lowest-confidence fallback. It collects merchant
// description lines and date+amount rows as two independent ordered
// sequences and pairs them by position. When the row sequence is exactly one
// longer than the merchant sequence and the first row's amount is above the
// previous-balance cutoff, that row is dropped as a carried-over balance.
// Merchant and amount can desynchronize here, which is why every other
// strategy runs first.
type PositionalStrategy struct {
	Log logging.Logger
}

func (s *PositionalStrategy) Name() string { return "positional-alignment" }

func (s *PositionalStrategy) Extract(doc normalize.Document) []models.Transaction {
	log := s.Log
	if log == nil {
		log = logging.GetLogger()
	}

	var merchants []string
	var rows []dateAmountRow

	for _, line := range doc.Lines {
		if m := dateAmountRowRe.FindStringSubmatch(line); m != nil {
			date, ok := normalize.ParseDayMonth(m[1], m[2], doc.StatementYear)
			if !ok {
				continue
			}
			amount, ok := normalize.ParseMoney(m[3])
			if !ok {
				continue
			}
			if m[4] != "" {
				amount = amount.Abs().Neg()
			}
			rows = append(rows, dateAmountRow{date: date, amount: amount})
			continue
		}
		if !merchantLike(line) {
			continue
		}
		if merchant, ok := validMerchant(line); ok {
			merchants = append(merchants, merchant)
		}
	}

	if len(rows) == len(merchants)+1 && rows[0].amount.Abs().GreaterThan(previousBalanceCutoff) {
		log.Debug("Dropping leading previous-balance row",
			logging.Field{Key: logging.FieldAmount, Value: rows[0].amount.String()})
		rows = rows[1:]
	}

	n := len(rows)
	if len(merchants) < n {
		n = len(merchants)
	}
	if len(rows) != len(merchants) {
		log.Warn("Merchant and amount sequences differ in length, pairing may desynchronize",
			logging.Field{Key: "merchants", Value: len(merchants)},
			logging.Field{Key: "rows", Value: len(rows)})
	}

	txs := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, finalize(models.Transaction{
			ID:         uuid.NewString(),
			Date:       rows[i].date,
			Merchant:   merchants[i],
			Amount:     rows[i].amount,
			Provenance: models.ProvenancePositional,
		}))
	}

	return txs
}

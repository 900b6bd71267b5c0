package extract

import (
	"strings"

	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// scanState tracks what the line scanner is still missing for the record in
// progress.
type scanState int

const (
	awaitingDate scanState = iota
	awaitingAmount
	awaitingMerchant
	recordComplete
)

// recordBuilder holds the fields observed so far for one record.
type recordBuilder struct {
	hasDate     bool
	hasAmount   bool
	hasMerchant bool
	day, month  string
	amount      decimal.Decimal
	merchant    string
}

func (b *recordBuilder) state() scanState {
	switch {
	case !b.hasDate:
		return awaitingDate
	case !b.hasAmount:
		return awaitingAmount
	case !b.hasMerchant:
		return awaitingMerchant
	default:
		return recordComplete
	}
}

// flush emits the record when complete; incomplete state is discarded.
func (b *recordBuilder) flush(statementYear int) (models.Transaction, bool) {
	if b.state() != recordComplete {
		return models.Transaction{}, false
	}
	date, ok := normalize.ParseDayMonth(b.day, b.month, statementYear)
	if !ok {
		return models.Transaction{}, false
	}
	return finalize(models.Transaction{
		ID:         uuid.NewString(),
		Date:       date,
		Merchant:   b.merchant,
		Amount:     b.amount,
		Provenance: models.ProvenancePositional,
	}), true
}

// StateMachineStrategy scans lines sequentially, accumulating date, amount,
// and merchant for one record at a time. A bare day-month line starts a new
// record, flushing the prior one if complete; a bare amount line sets the
// amount and credit flag; the first sufficiently long line that is neither a
// header, a pure number, nor an all-caps label becomes the merchant.
type StateMachineStrategy struct{}

func (s *StateMachineStrategy) Name() string { return "line-state-machine" }

func (s *StateMachineStrategy) Extract(doc normalize.Document) []models.Transaction {
	var txs []models.Transaction
	var current recordBuilder

	for _, line := range doc.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := bareDayMonthRe.FindStringSubmatch(trimmed); m != nil {
			if tx, ok := current.flush(doc.StatementYear); ok {
				txs = append(txs, tx)
			}
			current = recordBuilder{hasDate: true, day: m[1], month: m[2]}
			continue
		}

		if amount, ok := parseAmountLine(trimmed); ok {
			current.amount = amount
			current.hasAmount = true
			continue
		}

		if current.hasMerchant || !merchantLike(trimmed) {
			continue
		}
		if merchant, ok := validMerchant(trimmed); ok {
			current.merchant = merchant
			current.hasMerchant = true
		}
	}

	if tx, ok := current.flush(doc.StatementYear); ok {
		txs = append(txs, tx)
	}

	return txs
}

// merchantLike filters out lines that cannot be merchant descriptions:
// short fragments, pure numbers, and all-caps section labels.
func merchantLike(line string) bool {
	if len(line) < 6 {
		return false
	}
	if pureNumberRe.MatchString(line) {
		return false
	}
	if isAllCapsLabel(line) {
		return false
	}
	return true
}

// isAllCapsLabel matches single-word shouting section headers ("SUMMARY",
// "REWARDS"). Multi-word all-caps lines are left alone since statement
// merchants print in all caps.
func isAllCapsLabel(line string) bool {
	if strings.ToUpper(line) != line {
		return false
	}
	if len(strings.Fields(line)) > 1 {
		return false
	}
	for _, r := range line {
		if r >= '0' && r <= '9' {
			return false
		}
		if r == '-' || r == '*' || r == '#' {
			return false
		}
	}
	return true
}

// Package ledger reconciles shared expenses into per-person balances. The
// computation is a pure fold over the transaction list: no stored running
// totals, so there is nothing to synchronize and nothing to drift.
package ledger

import (
	"sort"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/shopspring/decimal"
)

// tolerance is the currency epsilon. Declared shares within one cent of the
// transaction amount are taken as exact.
var tolerance = decimal.NewFromFloat(0.01)

// Balances maps person name to net position. Positive means the person is
// owed money, negative means they owe.
type Balances map[string]decimal.Decimal

// Compute folds the transactions into net balances. Only transactions with
// a payer and at least one split participate; deleted transactions never
// do. When the declared shares do not sum to the transaction amount, each
// share is scaled by amount/declaredSum so the applied shares always
// conserve the full amount. The payer's own share is never debited back,
// only netted out of their credit.
func Compute(txs []models.Transaction, log logging.Logger) Balances {
	if log == nil {
		log = logging.GetLogger()
	}

	balances := make(Balances)
	for _, tx := range txs {
		applyOne(balances, tx, log)
	}
	return balances
}

func applyOne(balances Balances, tx models.Transaction, log logging.Logger) {
	if tx.Deleted || tx.PaidBy == "" || len(tx.Splits) == 0 {
		return
	}

	declared := tx.DeclaredSplitSum()
	if declared.IsZero() {
		log.Warn("Skipping split with zero declared shares",
			logging.Field{Key: logging.FieldTxID, Value: tx.ID})
		return
	}

	rescale := declared.Sub(tx.Amount).Abs().GreaterThan(tolerance)
	if rescale {
		log.Debug("Rescaling declared shares to the transaction amount",
			logging.Field{Key: logging.FieldTxID, Value: tx.ID},
			logging.Field{Key: logging.FieldAmount, Value: tx.Amount.String()})
	}

	credit := tx.Amount
	for _, part := range tx.Splits {
		share := part.Amount
		if rescale {
			// Multiply before dividing so exact ratios stay exact.
			share = part.Amount.Mul(tx.Amount).Div(declared)
		}
		if part.Name == tx.PaidBy {
			credit = credit.Sub(share)
			continue
		}
		balances[part.Name] = balances[part.Name].Sub(share)
	}
	balances[tx.PaidBy] = balances[tx.PaidBy].Add(credit)
}

// People returns the balance keys in stable sorted order for rendering.
func (b Balances) People() []string {
	people := make([]string, 0, len(b))
	for name := range b {
		people = append(people, name)
	}
	sort.Strings(people)
	return people
}

// Settlement is one suggested repayment.
type Settlement struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Settle proposes a minimal-ish repayment plan: largest debtor pays largest
// creditor until every balance is within the tolerance of zero.
func (b Balances) Settle() []Settlement {
	type entry struct {
		name   string
		amount decimal.Decimal
	}

	var debtors, creditors []entry
	for _, name := range b.People() {
		v := b[name]
		switch {
		case v.LessThan(tolerance.Neg()):
			debtors = append(debtors, entry{name, v.Neg()})
		case v.GreaterThan(tolerance):
			creditors = append(creditors, entry{name, v})
		}
	}
	sort.Slice(debtors, func(i, j int) bool { return debtors[i].amount.GreaterThan(debtors[j].amount) })
	sort.Slice(creditors, func(i, j int) bool { return creditors[i].amount.GreaterThan(creditors[j].amount) })

	var plan []Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		pay := decimal.Min(debtors[i].amount, creditors[j].amount)
		plan = append(plan, Settlement{
			From:   debtors[i].name,
			To:     creditors[j].name,
			Amount: pay.Round(2),
		})
		debtors[i].amount = debtors[i].amount.Sub(pay)
		creditors[j].amount = creditors[j].amount.Sub(pay)
		if debtors[i].amount.LessThanOrEqual(tolerance) {
			i++
		}
		if creditors[j].amount.LessThanOrEqual(tolerance) {
			j++
		}
	}
	return plan
}

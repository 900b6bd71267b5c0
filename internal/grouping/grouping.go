// Package grouping clusters recurring transactions by merchant. A cluster
// becomes a suggested group once it reaches the recurrence threshold;
// amount-qualified clusters (same merchant, same rounded amount) take
// priority over merchant-only clusters so a fixed subscription does not get
// absorbed into a broader merchant group.
package grouping

import (
	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Threshold is the minimum cluster size that produces a group suggestion.
const Threshold = 3

// Suggestion pairs a proposed group with the IDs of every transaction in
// its cluster. Assignment is retroactive: all members, not just the one
// that crossed the threshold.
type Suggestion struct {
	Group     models.Group
	MemberIDs []string
}

// AmountKey renders the rounded-amount qualifier for a transaction amount.
func AmountKey(amount decimal.Decimal) string {
	return amount.Round(2).StringFixed(2)
}

// Keys returns the pair of cluster keys for one transaction.
func Keys(tx models.Transaction) (merchantKey, amountKey string) {
	return classify.NormalizeMerchant(tx.Merchant), AmountKey(tx.Amount)
}

type cluster struct {
	name    string
	members []string
}

// Suggest scans the transactions and proposes groups for every cluster at
// or above the threshold. Deleted transactions and transactions already in
// a group are excluded from clustering. Order of suggestions follows the
// order clusters first appear in the input.
func Suggest(txs []models.Transaction, log logging.Logger) []Suggestion {
	if log == nil {
		log = logging.GetLogger()
	}

	type clusterKey struct {
		merchant string
		amount   string // empty for merchant-only clusters
	}

	clusters := make(map[clusterKey]*cluster)
	var order []clusterKey

	add := func(key clusterKey, tx models.Transaction) {
		c, ok := clusters[key]
		if !ok {
			c = &cluster{name: tx.Merchant}
			clusters[key] = c
			order = append(order, key)
		}
		c.members = append(c.members, tx.ID)
	}

	for _, tx := range txs {
		if tx.Deleted || tx.GroupID != "" {
			continue
		}
		merchantKey, amountKey := Keys(tx)
		if merchantKey == "" {
			continue
		}
		add(clusterKey{merchant: merchantKey, amount: amountKey}, tx)
		add(clusterKey{merchant: merchantKey}, tx)
	}

	claimedMerchants := make(map[string]bool)
	var suggestions []Suggestion

	// Amount-qualified clusters first; a merchant-only cluster is emitted
	// only when no amount-qualified group already claims that merchant.
	for _, pass := range []bool{true, false} {
		for _, key := range order {
			if (key.amount != "") != pass {
				continue
			}
			if key.amount == "" && claimedMerchants[key.merchant] {
				continue
			}
			c := clusters[key]

			members := c.members
			if len(members) < Threshold {
				continue
			}
			if key.amount != "" {
				claimedMerchants[key.merchant] = true
			}

			suggestions = append(suggestions, Suggestion{
				Group: models.Group{
					ID:          uuid.NewString(),
					Name:        c.name,
					MerchantKey: key.merchant,
					AmountKey:   key.amount,
				},
				MemberIDs: members,
			})
			log.Info("Suggesting recurring-merchant group",
				logging.Field{Key: logging.FieldMerchant, Value: c.name},
				logging.Field{Key: logging.FieldCount, Value: len(members)})
		}
	}

	return suggestions
}

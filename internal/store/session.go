// Package store holds the session's transactions and groups in memory.
// Transactions are owned by the session; groups are referenced from
// transactions by ID. Mutations are last-writer-wins per transaction; the
// mutex exists for the HTTP surface, the interactive CLI path is
// single-writer.
package store

import (
	"fmt"
	"sync"

	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/grouping"
	"billbuddy/statements/internal/ledger"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/parsererror"

	"github.com/shopspring/decimal"
)

var splitTolerance = decimal.NewFromFloat(0.01)

// Session is the in-memory working set for one user session. Import only
// appends; deletion is always a tombstone so restore works.
type Session struct {
	mu     sync.RWMutex
	order  []string
	txs    map[string]*models.Transaction
	groups []models.Group
	log    logging.Logger
}

// NewSession builds an empty session.
func NewSession(log logging.Logger) *Session {
	if log == nil {
		log = logging.GetLogger()
	}
	return &Session{
		txs: make(map[string]*models.Transaction),
		log: log,
	}
}

// AddTransactions appends imported transactions, auto-assigning each to an
// existing group whose normalization key matches.
func (s *Session) AddTransactions(txs []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range txs {
		tx := txs[i]
		if _, exists := s.txs[tx.ID]; exists {
			s.log.Warn("Skipping duplicate transaction ID on import",
				logging.Field{Key: logging.FieldTxID, Value: tx.ID})
			continue
		}
		if tx.GroupID == "" {
			merchantKey, amountKey := grouping.Keys(tx)
			for _, g := range s.groups {
				if g.Matches(merchantKey, amountKey) {
					tx.GroupID = g.ID
					break
				}
			}
		}
		s.txs[tx.ID] = &tx
		s.order = append(s.order, tx.ID)
	}

	s.log.Info("Imported transactions",
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
}

// All returns every transaction, tombstones included, in import order.
func (s *Session) All() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(true)
}

// Active returns non-deleted transactions in import order.
func (s *Session) Active() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(false)
}

// Pending returns non-deleted transactions still needing attention.
func (s *Session) Pending() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []models.Transaction
	for _, id := range s.order {
		tx := s.txs[id]
		if !tx.Deleted && tx.Pending() {
			pending = append(pending, *tx)
		}
	}
	return pending
}

func (s *Session) snapshot(includeDeleted bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.order))
	for _, id := range s.order {
		tx := s.txs[id]
		if !includeDeleted && tx.Deleted {
			continue
		}
		out = append(out, *tx)
	}
	return out
}

// Get returns one transaction by ID.
func (s *Session) Get(id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[id]
	if !ok {
		return models.Transaction{}, &parsererror.NotFoundError{Kind: "transaction", ID: id}
	}
	return *tx, nil
}

// Delete tombstones a transaction. Deleting an already-deleted transaction
// is a no-op.
func (s *Session) Delete(id string) error {
	return s.update(id, func(tx *models.Transaction) error {
		tx.Deleted = true
		return nil
	})
}

// Restore clears the tombstone. Restoring a never-deleted transaction is a
// no-op.
func (s *Session) Restore(id string) error {
	return s.update(id, func(tx *models.Transaction) error {
		tx.Deleted = false
		return nil
	})
}

// SetReviewed sets the user-asserted done flag.
func (s *Session) SetReviewed(id string, reviewed bool) error {
	return s.update(id, func(tx *models.Transaction) error {
		tx.Reviewed = reviewed
		return nil
	})
}

// SetCategory overrides the category on one transaction.
func (s *Session) SetCategory(id, category string) error {
	return s.update(id, func(tx *models.Transaction) error {
		tx.Category = category
		return nil
	})
}

// AssignGroup points a transaction at a group, or clears the assignment
// when groupID is empty.
func (s *Session) AssignGroup(id, groupID string) error {
	return s.update(id, func(tx *models.Transaction) error {
		if groupID != "" && !s.groupExists(groupID) {
			return &parsererror.NotFoundError{Kind: "group", ID: groupID}
		}
		tx.GroupID = groupID
		return nil
	})
}

// SetSplits saves an interactive split edit. Declared shares must sum to
// the transaction amount within one cent; only already-saved historical
// mismatches are tolerated downstream, new edits are rejected here.
func (s *Session) SetSplits(id, paidBy string, splits []models.SplitPart) error {
	return s.update(id, func(tx *models.Transaction) error {
		if len(splits) > 0 {
			declared := decimal.Zero
			for _, p := range splits {
				if p.Name == "" {
					return &parsererror.ValidationError{
						Subject: "splits",
						Reason:  "split part has no name",
					}
				}
				declared = declared.Add(p.Amount)
			}
			if declared.Sub(tx.Amount).Abs().GreaterThan(splitTolerance) {
				return &parsererror.ValidationError{
					Subject: "splits",
					Reason: fmt.Sprintf("declared shares sum to %s, transaction amount is %s",
						declared.StringFixed(2), tx.Amount.StringFixed(2)),
				}
			}
		}
		tx.PaidBy = paidBy
		tx.Splits = splits
		return nil
	})
}

func (s *Session) update(id string, fn func(*models.Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok {
		return &parsererror.NotFoundError{Kind: "transaction", ID: id}
	}
	return fn(tx)
}

// Groups returns the session's groups in creation order.
func (s *Session) Groups() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

func (s *Session) groupExists(id string) bool {
	for _, g := range s.groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// SuggestGroups clusters the current ungrouped transactions, records every
// group that crosses the recurrence threshold, and assigns all cluster
// members to it retroactively.
func (s *Session) SuggestGroups() []models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	suggestions := grouping.Suggest(s.snapshot(false), s.log)
	created := make([]models.Group, 0, len(suggestions))
	for _, sg := range suggestions {
		s.groups = append(s.groups, sg.Group)
		for _, id := range sg.MemberIDs {
			if tx, ok := s.txs[id]; ok && tx.GroupID == "" {
				tx.GroupID = sg.Group.ID
			}
		}
		created = append(created, sg.Group)
	}
	return created
}

// Balances folds the current non-deleted transactions into per-person net
// positions.
func (s *Session) Balances() ledger.Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.Compute(s.snapshot(false), s.log)
}

// EnsureCategories fills in categories for transactions that have none.
func (s *Session) EnsureCategories(c *classify.Classifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		tx := s.txs[id]
		if tx.Category == "" {
			tx.Category = c.Categorize(tx.Merchant)
		}
	}
}

// Package extract recovers transaction records from normalized statement
// text. Extraction is an ordered cascade of strategies, from the most
// structural to the most heuristic; the first strategy producing at least
// one transaction wins and no merging across strategies ever happens, since
// mixing partial results risks inconsistent records.
package extract

import (
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"
)

// Strategy is one extraction attempt. Implementations are pure with respect
// to the document: no shared state, no side effects beyond logging.
type Strategy interface {
	// Name identifies the strategy in logs and results.
	Name() string

	// Extract attempts to recover a complete set of transactions from the
	// document. An empty result means the strategy does not apply.
	Extract(doc normalize.Document) []models.Transaction
}

// Cascade runs strategies in priority order and stops at the first
// non-empty result. The ordering is part of the correctness contract, not
// an optimization; strategies must not run concurrently against one input.
type Cascade struct {
	strategies []Strategy
	log        logging.Logger
}

// NewCascade builds the default cascade, most structural first.
func NewCascade(log logging.Logger) *Cascade {
	if log == nil {
		log = logging.GetLogger()
	}
	return NewCascadeWithStrategies(log,
		&BlockStrategy{},
		&ReferenceStrategy{},
		&EstimateStrategy{},
		&StateMachineStrategy{},
		&SingleLineStrategy{},
		&PositionalStrategy{},
	)
}

// NewCascadeWithStrategies builds a cascade with an explicit strategy list.
func NewCascadeWithStrategies(log logging.Logger, strategies ...Strategy) *Cascade {
	if log == nil {
		log = logging.GetLogger()
	}
	return &Cascade{strategies: strategies, log: log}
}

// Run tries each strategy in turn and returns the winner's transactions
// along with the winning strategy name. An empty result with an empty name
// means no strategy matched; the caller decides how to surface that.
func (c *Cascade) Run(doc normalize.Document) ([]models.Transaction, string) {
	for _, s := range c.strategies {
		txs := s.Extract(doc)
		if len(txs) == 0 {
			c.log.Debug("Strategy produced no transactions",
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()})
			continue
		}
		c.log.Info("Extraction strategy matched",
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: logging.FieldCount, Value: len(txs)})
		return txs, s.Name()
	}
	c.log.Warn("No extraction strategy matched the document")
	return nil, ""
}

// Package pipeline wires the stages together: normalize, extract via the
// strategy cascade, classify, and cluster. One Pipeline processes one
// document at a time; independent instances may run in parallel, there is
// no cross-document state.
package pipeline

import (
	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/extract"
	"billbuddy/statements/internal/grouping"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"
)

// Result is the full outcome of processing one statement. Processing never
// fails outright; the worst case is an empty transaction list with an empty
// strategy name.
type Result struct {
	Meta         models.StatementMeta    `json:"meta"`
	Summary      models.StatementSummary `json:"summary"`
	Transactions []models.Transaction    `json:"transactions"`
	Instalments  []models.Instalment     `json:"instalments"`
	Rewards      models.RewardsSummary   `json:"rewards"`
	Groups       []models.Group          `json:"groups"`
	Strategy     string                  `json:"strategy,omitempty"`
}

// Options carry the per-session defaults stamped onto extracted records.
type Options struct {
	// Currency for extracted amounts when the statement does not override
	// it.
	Currency string

	// Holder is the statement holder's name, stamped as the payer.
	Holder string
}

// Pipeline processes statement text into a Result.
type Pipeline struct {
	cascade    *extract.Cascade
	classifier *classify.Classifier
	opts       Options
	log        logging.Logger
}

// New builds a pipeline with the default strategy cascade.
func New(classifier *classify.Classifier, opts Options, log logging.Logger) *Pipeline {
	if log == nil {
		log = logging.GetLogger()
	}
	if opts.Currency == "" {
		opts.Currency = models.DefaultCurrency
	}
	if classifier == nil {
		classifier = classify.New(log)
	}
	return &Pipeline{
		cascade:    extract.NewCascade(log),
		classifier: classifier,
		opts:       opts,
		log:        log,
	}
}

// Process runs the full pipeline over one statement's page text.
func (p *Pipeline) Process(text string) Result {
	doc := normalize.Normalize(text)

	meta := extract.Meta(doc, p.log)
	summary := extract.Summary(doc, p.log)
	if p.opts.Currency != "" {
		meta.Currency = p.opts.Currency
	}

	txs, strategy := p.cascade.Run(doc)
	for i := range txs {
		if txs[i].Currency == "" {
			txs[i].Currency = meta.Currency
		}
		if txs[i].PaidBy == "" {
			txs[i].PaidBy = p.opts.Holder
		}
		if txs[i].Category == "" {
			txs[i].Category = p.classifier.Categorize(txs[i].Merchant)
		}
	}

	suggestions := grouping.Suggest(txs, p.log)
	groups := make([]models.Group, 0, len(suggestions))
	for _, sg := range suggestions {
		groups = append(groups, sg.Group)
	}

	p.log.Info("Statement processed",
		logging.Field{Key: logging.FieldStrategy, Value: strategy},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})

	return Result{
		Meta:         meta,
		Summary:      summary,
		Transactions: txs,
		Instalments:  extract.Instalments(doc, p.log),
		Rewards:      extract.Rewards(doc, p.log),
		Groups:       groups,
		Strategy:     strategy,
	}
}

// Package recat implements the bulk re-categorization driver: rebuild the
// compiled rule set from persistence, re-apply classification to every
// stored transaction, and report match and change counts. Re-categorization
// is an explicit caller-invoked operation, not a hidden side effect of rule
// mutation.
package recat

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/csv-classify/internal/classify"
	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/models"
	"fjacquet/csv-classify/internal/parsererror"
	"fjacquet/csv-classify/internal/rules"
	"fjacquet/csv-classify/internal/store"
)

// Summary reports one re-categorization pass. Matched counts transactions
// where some rule fired, including exact restatements of the prior result;
// Changed counts transactions whose stored classification actually
// differed after the pass. Running the pass twice with no intervening
// mutations yields Changed == 0 the second time.
type Summary struct {
	Matched     int
	Changed     int
	FailedRules []models.FailedRule
}

// Driver re-evaluates the whole transaction set against a freshly compiled
// rule snapshot.
type Driver struct {
	store     store.Store
	model     *classify.Model
	exact     []store.ExactMatch
	threshold float64
	logger    logging.Logger
}

// NewDriver creates a Driver. model may be nil; exact seeds the engine's
// exact-phrase dictionary on every rebuild.
func NewDriver(st store.Store, model *classify.Model, exact []store.ExactMatch, threshold float64, logger logging.Logger) *Driver {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Driver{
		store:     st,
		model:     model,
		exact:     exact,
		threshold: threshold,
		logger:    logger,
	}
}

// BuildEngine compiles the store's current rules into a fresh engine
// snapshot, reporting rules that failed to compile. Callers own the
// returned engine; a rule mutation means calling BuildEngine again and
// swapping the reference.
func (d *Driver) BuildEngine(ctx context.Context) (*classify.Engine, []models.FailedRule, error) {
	defs, err := d.store.LoadRules(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading rules: %w", err)
	}

	set, failed := rules.Compile(defs)
	for _, f := range failed {
		d.logger.WithError(&parsererror.RuleError{Pattern: f.Pattern, Err: errors.New(f.Error)}).
			Warn("Rule excluded from active set")
	}

	engine := classify.NewEngine(set, d.model, d.threshold, d.logger)
	for _, em := range d.exact {
		engine.AddExactMatch(em.Phrase, em.Target)
	}
	return engine, failed, nil
}

// RecategorizeAll rebuilds the rule snapshot and reclassifies every stored
// transaction. The snapshot is taken once at pass start: rule edits made
// while the pass runs are not visible mid-pass. Category and transfer
// fields of manually classified transactions are left untouched; labels
// are re-applied unconditionally.
func (d *Driver) RecategorizeAll(ctx context.Context) (Summary, error) {
	engine, failed, err := d.BuildEngine(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{FailedRules: failed}

	txns, err := d.store.LoadAllTransactions(ctx)
	if err != nil {
		return summary, fmt.Errorf("error loading transactions: %w", err)
	}

	for i := range txns {
		tx := &txns[i]
		result := engine.Classify(tx.Description)
		labels := engine.ExtractLabels(tx.Description)

		if result.Matched() || len(labels) > 0 {
			summary.Matched++
		}

		if classify.Apply(tx, result, labels) {
			summary.Changed++
			if err := d.store.UpdateTransaction(ctx, *tx); err != nil {
				return summary, fmt.Errorf("error updating transaction %d: %w", tx.ID, err)
			}
		}
	}

	d.logger.WithFields(
		logging.F("matched", summary.Matched),
		logging.F("changed", summary.Changed),
		logging.F("failed_rules", len(summary.FailedRules)),
	).Info("Re-categorization complete")

	return summary, nil
}

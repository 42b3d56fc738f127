// Package classify implements the transaction classification waterfall:
// an exact-phrase dictionary, the priority-ordered compiled rule set, and
// an optional statistical fallback, evaluated in strict order with
// short-circuiting at the first hit. Label extraction runs independently of
// the category decision.
package classify

import (
	"strings"

	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/models"
	"fjacquet/csv-classify/internal/rules"
)

// DefaultConfidenceThreshold is the minimum predicted probability for the
// statistical layer to claim a transaction.
const DefaultConfidenceThreshold = 0.7

// Engine evaluates the classification waterfall against a read-only rule
// snapshot. Reloading rules means building a new Engine and swapping the
// reference held by the caller; an Engine never reaches back into the rule
// store mid-evaluation.
type Engine struct {
	exact     map[string]models.TargetRef
	set       *rules.CompiledRuleSet
	model     *Model
	threshold float64
	logger    logging.Logger
}

// NewEngine builds an engine over a compiled rule snapshot. model may be
// nil when no statistical classifier has been trained; threshold <= 0 falls
// back to the default.
func NewEngine(set *rules.CompiledRuleSet, model *Model, threshold float64, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Engine{
		exact:     make(map[string]models.TargetRef),
		set:       set,
		model:     model,
		threshold: threshold,
		logger:    logger,
	}
}

// AddExactMatch registers an exact phrase in the deterministic layer.
// Lookup is case-insensitive and whitespace-trimmed.
func (e *Engine) AddExactMatch(phrase string, target models.TargetRef) {
	key := strings.ToLower(strings.TrimSpace(phrase))
	if key == "" {
		return
	}
	e.exact[key] = target
}

// Classify runs one description through the waterfall:
//
//  1. exact dictionary hit, confidence 1.0
//  2. first regex rule match in (priority, id) order, confidence 0.9
//  3. statistical prediction, accepted only above the confidence threshold
//  4. uncategorized, confidence 0.0
//
// An empty or whitespace-only description yields uncategorized without
// evaluating any layer.
func (e *Engine) Classify(description string) models.ClassificationResult {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return models.Uncategorized()
	}

	if target, ok := e.exact[strings.ToLower(trimmed)]; ok {
		return models.ClassificationResult{
			Target:     target,
			Source:     models.SourceExact,
			Confidence: models.ConfidenceExact,
		}
	}

	// Regex rules match against the raw, non-lowercased description; the
	// compiled patterns are case-insensitive themselves.
	if rule, ok := e.set.FirstMatch(description); ok {
		return models.ClassificationResult{
			Target:     rule.Target,
			Source:     models.SourceRegex,
			Confidence: models.ConfidenceRegex,
		}
	}

	if e.model.Trained() {
		if categoryID, prob, ok := e.model.Predict(description); ok && prob > e.threshold {
			e.logger.WithFields(
				logging.F("category", categoryID),
				logging.F("confidence", prob),
			).Debug("Statistical layer claimed transaction")
			return models.ClassificationResult{
				Target:     models.CategoryTarget(categoryID),
				Source:     models.SourceStatistical,
				Confidence: prob,
			}
		}
	}

	return models.Uncategorized()
}

// ExtractLabels scans the entire rule set for matching label rules,
// regardless of what the category waterfall decided. An empty description
// yields no labels.
func (e *Engine) ExtractLabels(description string) []int64 {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	return e.set.MatchingLabels(description)
}

// Apply mutates a transaction's derived fields from a classification result
// and a label match set, and reports whether anything stored actually
// changed. Transfer and category are mutually exclusive: resolving a
// transfer clears the category and vice versa. Label attachment is an
// idempotent set union and is applied even to manually-classified
// transactions; category/transfer fields of manual transactions are left
// untouched.
func Apply(tx *models.Transaction, res models.ClassificationResult, labels []int64) bool {
	changed := false

	if !tx.IsManual {
		switch res.Target.Kind {
		case models.TargetTransfer:
			to := res.Target.ID
			if !tx.IsTransfer || tx.ToAccountID == nil || *tx.ToAccountID != to {
				changed = true
			}
			if tx.CategoryID != nil {
				changed = true
			}
			tx.IsTransfer = true
			tx.ToAccountID = &to
			tx.CategoryID = nil
		case models.TargetCategory:
			cat := res.Target.ID
			if tx.CategoryID == nil || *tx.CategoryID != cat {
				changed = true
			}
			if tx.IsTransfer || tx.ToAccountID != nil {
				changed = true
			}
			tx.CategoryID = &cat
			tx.IsTransfer = false
			tx.ToAccountID = nil
		}
		// A label-kind or empty result leaves category/transfer untouched.
	}

	for _, id := range labels {
		if tx.AttachLabel(id) {
			changed = true
		}
	}

	return changed
}

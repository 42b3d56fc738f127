package store

import (
	"fmt"
	"os"

	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/models"

	"gopkg.in/yaml.v3"
)

// ruleDoc is the on-disk rule shape. Exactly one target column should be
// set; precedence when several are present is transfer, then label, then
// category, matching how rules have historically been interpreted.
type ruleDoc struct {
	ID               int64  `yaml:"id"`
	Pattern          string `yaml:"pattern"`
	Priority         int    `yaml:"priority"`
	TargetCategoryID *int64 `yaml:"target_category_id,omitempty"`
	TargetAccountID  *int64 `yaml:"target_account_id,omitempty"`
	TargetLabelID    *int64 `yaml:"target_label_id,omitempty"`
}

// exactDoc is one exact-phrase dictionary entry on disk.
type exactDoc struct {
	Phrase           string `yaml:"phrase"`
	TargetCategoryID *int64 `yaml:"target_category_id,omitempty"`
	TargetAccountID  *int64 `yaml:"target_account_id,omitempty"`
	TargetLabelID    *int64 `yaml:"target_label_id,omitempty"`
}

type ruleFileDoc struct {
	Rules        []ruleDoc  `yaml:"rules"`
	ExactMatches []exactDoc `yaml:"exact_matches,omitempty"`
}

// ExactMatch is a loaded exact-phrase entry.
type ExactMatch struct {
	Phrase string
	Target models.TargetRef
}

// RuleFile loads rule definitions and the exact-match dictionary from a
// YAML file.
type RuleFile struct {
	Path   string
	logger logging.Logger
}

// NewRuleFile creates a loader for the given path.
func NewRuleFile(path string, logger logging.Logger) *RuleFile {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleFile{Path: path, logger: logger}
}

// Load reads the file. A missing file yields empty sets, not an error, so
// a fresh installation starts with no rules.
func (f *RuleFile) Load() ([]models.Rule, []ExactMatch, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.WithField("file", f.Path).Warn("Rule file not found, starting with empty rule set")
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("error reading rule file: %w", err)
	}

	var doc ruleFileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("error parsing rule file %s: %w", f.Path, err)
	}

	defs := make([]models.Rule, 0, len(doc.Rules))
	for i, rd := range doc.Rules {
		id := rd.ID
		if id == 0 {
			id = int64(i + 1)
		}
		defs = append(defs, models.Rule{
			ID:       id,
			Pattern:  rd.Pattern,
			Priority: rd.Priority,
			Target:   targetFromColumns(rd.TargetCategoryID, rd.TargetAccountID, rd.TargetLabelID),
		})
	}

	exact := make([]ExactMatch, 0, len(doc.ExactMatches))
	for _, ed := range doc.ExactMatches {
		exact = append(exact, ExactMatch{
			Phrase: ed.Phrase,
			Target: targetFromColumns(ed.TargetCategoryID, ed.TargetAccountID, ed.TargetLabelID),
		})
	}

	f.logger.WithFields(
		logging.F("file", f.Path),
		logging.F("rules", len(defs)),
		logging.F("exact", len(exact)),
	).Info("Loaded rule definitions")

	return defs, exact, nil
}

func targetFromColumns(categoryID, accountID, labelID *int64) models.TargetRef {
	switch {
	case accountID != nil:
		return models.TransferTarget(*accountID)
	case labelID != nil:
		return models.LabelTarget(*labelID)
	case categoryID != nil:
		return models.CategoryTarget(*categoryID)
	default:
		return models.TargetRef{}
	}
}

// Package models defines the data types shared across the application:
// categorization rules, transactions, CSV import profiles, and
// classification results.
package models

import "fmt"

// TargetKind discriminates what a rule (or a classification result) points at.
type TargetKind int

const (
	// TargetNone means no target: the transaction stays uncategorized.
	TargetNone TargetKind = iota
	// TargetCategory assigns a spending category.
	TargetCategory
	// TargetTransfer links the transaction to a counter-account.
	TargetTransfer
	// TargetLabel attaches a descriptive label.
	TargetLabel
)

// String returns a human-readable name for the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetCategory:
		return "category"
	case TargetTransfer:
		return "transfer"
	case TargetLabel:
		return "label"
	default:
		return "none"
	}
}

// TargetRef is a tagged reference to a category, counter-account, or label.
// The zero value is "no target".
type TargetRef struct {
	Kind TargetKind `json:"kind" yaml:"kind"`
	ID   int64      `json:"id" yaml:"id"`
}

// CategoryTarget builds a TargetRef pointing at a category.
func CategoryTarget(id int64) TargetRef { return TargetRef{Kind: TargetCategory, ID: id} }

// TransferTarget builds a TargetRef pointing at a counter-account.
func TransferTarget(accountID int64) TargetRef { return TargetRef{Kind: TargetTransfer, ID: accountID} }

// LabelTarget builds a TargetRef pointing at a label.
func LabelTarget(id int64) TargetRef { return TargetRef{Kind: TargetLabel, ID: id} }

// IsZero reports whether the reference points at nothing.
func (t TargetRef) IsZero() bool {
	return t.Kind == TargetNone
}

// String renders the reference for logs, e.g. "category:3".
func (t TargetRef) String() string {
	if t.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Rule is a persisted categorization rule. Pattern must compile as a
// case-insensitive regular expression; rules that do not compile are
// excluded from the active set and reported as FailedRule.
// Lower Priority values are evaluated first, ties broken by ascending ID.
type Rule struct {
	ID       int64     `json:"id" yaml:"id"`
	Pattern  string    `json:"pattern" yaml:"pattern"`
	Priority int       `json:"priority" yaml:"priority"`
	Target   TargetRef `json:"target" yaml:"target"`
}

// FailedRule records a rule whose pattern did not compile. Failed rules are
// surfaced to the caller, never silently dropped.
type FailedRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Error   string `json:"error" yaml:"error"`
}

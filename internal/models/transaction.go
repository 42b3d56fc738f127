package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a persisted bank transaction. Date, Amount, Description and
// AccountID are fixed at import time; classification only mutates the
// derived fields (CategoryID, IsTransfer/ToAccountID, LabelIDs) unless the
// user edited the transaction by hand (IsManual).
type Transaction struct {
	ID          int64             `json:"id" yaml:"id"`
	Date        time.Time         `json:"date" yaml:"date"`
	Amount      decimal.Decimal   `json:"amount" yaml:"amount"`
	Description string            `json:"description" yaml:"description"`
	AccountID   int64             `json:"account_id" yaml:"account_id"`
	RawData     map[string]string `json:"raw_data,omitempty" yaml:"raw_data,omitempty"`

	CategoryID  *int64  `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	IsTransfer  bool    `json:"is_transfer" yaml:"is_transfer"`
	ToAccountID *int64  `json:"to_account_id,omitempty" yaml:"to_account_id,omitempty"`
	LabelIDs    []int64 `json:"label_ids,omitempty" yaml:"label_ids,omitempty"`

	// IsManual marks classification fixed by explicit user action; bulk
	// re-categorization must not override category/transfer on such rows.
	IsManual bool `json:"is_manual" yaml:"is_manual"`

	// Hash is the dedup key derived from (date, amount, description, account).
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// HasLabel reports whether the label is already attached.
func (t *Transaction) HasLabel(labelID int64) bool {
	for _, id := range t.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// AttachLabel adds a label if not already present and reports whether the
// label set changed. Re-running classification is an idempotent set union.
func (t *Transaction) AttachLabel(labelID int64) bool {
	if t.HasLabel(labelID) {
		return false
	}
	t.LabelIDs = append(t.LabelIDs, labelID)
	return true
}

// Candidate is a transaction extracted from one CSV row, before account
// resolution and persistence. AccountString carries the raw account token
// for multi-account statement files; mapping it to an account is the
// importer's concern.
type Candidate struct {
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
	AccountString string
	RawData       map[string]string
}

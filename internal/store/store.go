// Package store defines the persistence collaborator boundary the
// classification core consumes, an in-memory implementation backing the CLI
// and tests, and a YAML rule-file loader. The real storage engine behind
// the interface is out of scope here.
package store

import (
	"context"

	"fjacquet/csv-classify/internal/models"
)

// InsertOutcome is the result of an insert-or-reject operation.
type InsertOutcome int

const (
	// Inserted means the transaction was stored.
	Inserted InsertOutcome = iota
	// Duplicate means a transaction with the same dedup key already
	// exists; the caller treats this as "skip", not as a failure.
	Duplicate
)

// Store is the persistence interface the core consumes. Implementations
// must make InsertTransactionIfAbsent logically atomic: the uniqueness
// check and the insert happen under one operation, so two concurrent
// imports cannot both slip past the check.
type Store interface {
	// LoadRules returns all persisted rule definitions.
	LoadRules(ctx context.Context) ([]models.Rule, error)

	// LoadAllTransactions returns every stored transaction, for bulk
	// re-categorization.
	LoadAllTransactions(ctx context.Context) ([]models.Transaction, error)

	// LookupCategoryByID reports whether the category exists.
	LookupCategoryByID(ctx context.Context, id int64) (bool, error)

	// LookupAccountByID reports whether the account exists.
	LookupAccountByID(ctx context.Context, id int64) (bool, error)

	// LookupLabelByID reports whether the label exists.
	LookupLabelByID(ctx context.Context, id int64) (bool, error)

	// InsertTransactionIfAbsent stores the transaction under the given
	// dedup key, or rejects it as Duplicate when the key is taken.
	InsertTransactionIfAbsent(ctx context.Context, tx *models.Transaction, dedupKey string) (InsertOutcome, error)

	// UpdateTransaction persists changed derived fields of a transaction.
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
}

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fjacquet/csv-classify/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store. The dedup uniqueness
// check shares the insert's critical section, which makes
// InsertTransactionIfAbsent atomic.
type MemoryStore struct {
	mu         sync.RWMutex
	rules      []models.Rule
	categories map[int64]string
	accounts   map[int64]string
	labels     map[int64]string
	txns       map[int64]models.Transaction
	byHash     map[string]int64
	nextTxID   int64
	nextRuleID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[int64]string),
		accounts:   make(map[int64]string),
		labels:     make(map[int64]string),
		txns:       make(map[int64]models.Transaction),
		byHash:     make(map[string]int64),
		nextTxID:   1,
		nextRuleID: 1,
	}
}

// AddCategory registers a category identity.
func (s *MemoryStore) AddCategory(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = name
}

// AddAccount registers an account identity.
func (s *MemoryStore) AddAccount(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = name
}

// AddLabel registers a label identity.
func (s *MemoryStore) AddLabel(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[id] = name
}

// AddRule stores a rule definition, assigning an ID when none is set.
func (s *MemoryStore) AddRule(rule models.Rule) models.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID == 0 {
		rule.ID = s.nextRuleID
	}
	if rule.ID >= s.nextRuleID {
		s.nextRuleID = rule.ID + 1
	}
	s.rules = append(s.rules, rule)
	return rule
}

// ReplaceRules swaps the whole rule list, as after an edit or delete.
func (s *MemoryStore) ReplaceRules(defs []models.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append([]models.Rule(nil), defs...)
	for _, r := range defs {
		if r.ID >= s.nextRuleID {
			s.nextRuleID = r.ID + 1
		}
	}
}

// LoadRules returns all persisted rule definitions.
func (s *MemoryStore) LoadRules(_ context.Context) ([]models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Rule(nil), s.rules...), nil
}

// LoadAllTransactions returns copies of every stored transaction, in
// stable ID order.
func (s *MemoryStore) LoadAllTransactions(_ context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, 0, len(s.txns))
	for _, tx := range s.txns {
		out = append(out, copyTransaction(tx))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LookupCategoryByID reports whether the category exists.
func (s *MemoryStore) LookupCategoryByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.categories[id]
	return ok, nil
}

// LookupAccountByID reports whether the account exists.
func (s *MemoryStore) LookupAccountByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[id]
	return ok, nil
}

// LookupLabelByID reports whether the label exists.
func (s *MemoryStore) LookupLabelByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.labels[id]
	return ok, nil
}

// InsertTransactionIfAbsent stores the transaction unless its dedup key is
// already taken. Check and insert share one critical section.
func (s *MemoryStore) InsertTransactionIfAbsent(_ context.Context, tx *models.Transaction, dedupKey string) (InsertOutcome, error) {
	if dedupKey == "" {
		return Inserted, fmt.Errorf("empty dedup key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byHash[dedupKey]; exists {
		return Duplicate, nil
	}

	tx.ID = s.nextTxID
	s.nextTxID++
	tx.Hash = dedupKey
	s.txns[tx.ID] = copyTransaction(*tx)
	s.byHash[dedupKey] = tx.ID
	return Inserted, nil
}

// UpdateTransaction persists the derived fields of an existing transaction.
func (s *MemoryStore) UpdateTransaction(_ context.Context, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[tx.ID]; !ok {
		return fmt.Errorf("transaction %d not found", tx.ID)
	}
	s.txns[tx.ID] = copyTransaction(tx)
	return nil
}

// SeedTransaction stores a transaction as-is, assigning an ID when none is
// set. Used to load snapshots and to arrange test fixtures; dedup
// enforcement applies only when a hash is present.
func (s *MemoryStore) SeedTransaction(tx models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = s.nextTxID
	}
	if tx.ID >= s.nextTxID {
		s.nextTxID = tx.ID + 1
	}
	s.txns[tx.ID] = copyTransaction(tx)
	if tx.Hash != "" {
		s.byHash[tx.Hash] = tx.ID
	}
	return tx
}

// TransactionCount returns the number of stored transactions.
func (s *MemoryStore) TransactionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txns)
}

// copyTransaction deep-copies the fields the engine mutates, so callers
// never alias stored state.
func copyTransaction(tx models.Transaction) models.Transaction {
	out := tx
	if tx.CategoryID != nil {
		v := *tx.CategoryID
		out.CategoryID = &v
	}
	if tx.ToAccountID != nil {
		v := *tx.ToAccountID
		out.ToAccountID = &v
	}
	out.LabelIDs = append([]int64(nil), tx.LabelIDs...)
	if tx.RawData != nil {
		raw := make(map[string]string, len(tx.RawData))
		for k, v := range tx.RawData {
			raw[k] = v
		}
		out.RawData = raw
	}
	return out
}

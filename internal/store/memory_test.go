package store

import (
	"context"
	"testing"
	"time"

	"fjacquet/csv-classify/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction(description string) models.Transaction {
	return models.Transaction{
		Date:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(-42.50),
		Description: description,
		AccountID:   1,
	}
}

func TestInsertTransactionIfAbsent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	tx := sampleTransaction("COOP PRONTO")
	outcome, err := st.InsertTransactionIfAbsent(ctx, &tx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)
	assert.Equal(t, int64(1), tx.ID)
	assert.Equal(t, "key-1", tx.Hash)

	// Same key again is rejected, regardless of the transaction's content.
	dup := sampleTransaction("COOP PRONTO")
	outcome, err = st.InsertTransactionIfAbsent(ctx, &dup, "key-1")
	require.NoError(t, err)
	assert.Equal(t, Duplicate, outcome)
	assert.Equal(t, 1, st.TransactionCount())

	other := sampleTransaction("MIGROS")
	outcome, err = st.InsertTransactionIfAbsent(ctx, &other, "key-2")
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)
	assert.Equal(t, int64(2), other.ID)
}

func TestInsertTransactionEmptyKey(t *testing.T) {
	st := NewMemoryStore()
	tx := sampleTransaction("COOP")
	_, err := st.InsertTransactionIfAbsent(context.Background(), &tx, "")
	assert.Error(t, err)
}

func TestLoadAllTransactionsReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	cat := int64(3)
	st.SeedTransaction(models.Transaction{Description: "SBB", CategoryID: &cat, LabelIDs: []int64{1}})

	txns, err := st.LoadAllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	// Mutating the returned slice must not leak into stored state.
	*txns[0].CategoryID = 99
	txns[0].LabelIDs[0] = 99

	reloaded, err := st.LoadAllTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *reloaded[0].CategoryID)
	assert.Equal(t, []int64{1}, reloaded[0].LabelIDs)
}

func TestLoadAllTransactionsOrderedByID(t *testing.T) {
	st := NewMemoryStore()
	st.SeedTransaction(models.Transaction{ID: 5, Description: "C"})
	st.SeedTransaction(models.Transaction{ID: 2, Description: "A"})
	st.SeedTransaction(models.Transaction{Description: "B"}) // assigned ID 6

	txns, err := st.LoadAllTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, []int64{2, 5, 6}, []int64{txns[0].ID, txns[1].ID, txns[2].ID})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	tx := st.SeedTransaction(models.Transaction{Description: "SBB"})

	cat := int64(4)
	tx.CategoryID = &cat
	require.NoError(t, st.UpdateTransaction(ctx, tx))

	txns, err := st.LoadAllTransactions(ctx)
	require.NoError(t, err)
	require.NotNil(t, txns[0].CategoryID)
	assert.Equal(t, int64(4), *txns[0].CategoryID)

	assert.Error(t, st.UpdateTransaction(ctx, models.Transaction{ID: 999}))
}

func TestLookups(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	st.AddCategory(1, "Groceries")
	st.AddAccount(2, "Main")
	st.AddLabel(3, "vacation")

	ok, err := st.LookupCategoryByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = st.LookupCategoryByID(ctx, 99)
	assert.False(t, ok)

	ok, _ = st.LookupAccountByID(ctx, 2)
	assert.True(t, ok)
	ok, _ = st.LookupLabelByID(ctx, 3)
	assert.True(t, ok)
}

func TestRuleStorage(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	r1 := st.AddRule(models.Rule{Pattern: "migros", Priority: 10, Target: models.CategoryTarget(1)})
	assert.Equal(t, int64(1), r1.ID, "IDs are assigned when unset")

	r2 := st.AddRule(models.Rule{ID: 7, Pattern: "coop", Priority: 20, Target: models.CategoryTarget(2)})
	assert.Equal(t, int64(7), r2.ID)

	r3 := st.AddRule(models.Rule{Pattern: "denner", Priority: 30, Target: models.CategoryTarget(3)})
	assert.Equal(t, int64(8), r3.ID, "assignment continues past explicit IDs")

	defs, err := st.LoadRules(ctx)
	require.NoError(t, err)
	assert.Len(t, defs, 3)

	st.ReplaceRules([]models.Rule{{ID: 1, Pattern: "only", Priority: 1, Target: models.CategoryTarget(9)}})
	defs, err = st.LoadRules(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "only", defs[0].Pattern)
}

package recat

import (
	"context"
	"testing"
	"time"

	"fjacquet/csv-classify/internal/models"
	"fjacquet/csv-classify/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTx(st *store.MemoryStore, description string) models.Transaction {
	return st.SeedTransaction(models.Transaction{
		Date:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(-10),
		Description: description,
		AccountID:   1,
	})
}

func TestRecategorizeAll(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.ReplaceRules([]models.Rule{
		{ID: 1, Pattern: "uber", Priority: 10, Target: models.CategoryTarget(4)},
		{ID: 2, Pattern: "savings", Priority: 10, Target: models.TransferTarget(2)},
	})
	seedTx(st, "UBER TRIP 123")
	seedTx(st, "SAVINGS TRANSFER")
	seedTx(st, "KIOSK")

	driver := NewDriver(st, nil, nil, 0, nil)
	summary, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 2, summary.Changed)
	assert.Empty(t, summary.FailedRules)

	txns, err := st.LoadAllTransactions(ctx)
	require.NoError(t, err)
	require.NotNil(t, txns[0].CategoryID)
	assert.Equal(t, int64(4), *txns[0].CategoryID)
	assert.True(t, txns[1].IsTransfer)
	require.NotNil(t, txns[1].ToAccountID)
	assert.Equal(t, int64(2), *txns[1].ToAccountID)
	assert.Nil(t, txns[2].CategoryID)
}

func TestRecategorizeAllIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.ReplaceRules([]models.Rule{
		{ID: 1, Pattern: "uber", Priority: 10, Target: models.CategoryTarget(4)},
	})
	seedTx(st, "UBER TRIP 123")

	driver := NewDriver(st, nil, nil, 0, nil)

	first, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Changed)

	second, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Matched, "the rule still matches on the second pass")
	assert.Equal(t, 0, second.Changed, "nothing stored actually changes")
}

func TestRecategorizeAllPrioritySwap(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.ReplaceRules([]models.Rule{
		{ID: 1, Pattern: "payment", Priority: 10, Target: models.CategoryTarget(1)},
		{ID: 2, Pattern: "payment", Priority: 20, Target: models.CategoryTarget(2)},
	})
	seedTx(st, "CARD PAYMENT")

	driver := NewDriver(st, nil, nil, 0, nil)
	_, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)

	txns, _ := st.LoadAllTransactions(ctx)
	require.NotNil(t, txns[0].CategoryID)
	assert.Equal(t, int64(1), *txns[0].CategoryID)

	// Swapping priorities flips the winner on the next pass.
	st.ReplaceRules([]models.Rule{
		{ID: 1, Pattern: "payment", Priority: 20, Target: models.CategoryTarget(1)},
		{ID: 2, Pattern: "payment", Priority: 10, Target: models.CategoryTarget(2)},
	})

	summary, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Changed)

	txns, _ = st.LoadAllTransactions(ctx)
	require.NotNil(t, txns[0].CategoryID)
	assert.Equal(t, int64(2), *txns[0].CategoryID)
}

func TestRecategorizeAll_ManualTransactionStillReceivesLabels(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.ReplaceRules([]models.Rule{
		{ID: 1, Pattern: "coffee", Priority: 10, Target: models.CategoryTarget(1)},
		{ID: 2, Pattern: "coffee", Priority: 20, Target: models.LabelTarget(7)},
	})

	manual := int64(99)
	st.SeedTransaction(models.Transaction{
		Date:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(-5),
		Description: "COFFEE SHOP",
		AccountID:   1,
		CategoryID:  &manual,
		IsManual:    true,
	})

	driver := NewDriver(st, nil, nil, 0, nil)
	summary, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Changed)

	txns, _ := st.LoadAllTransactions(ctx)
	require.NotNil(t, txns[0].CategoryID)
	assert.Equal(t, int64(99), *txns[0].CategoryID, "manual category is never overridden")
	assert.Equal(t, []int64{7}, txns[0].LabelIDs, "labels are applied even on manual rows")
}

func TestRecategorizeAllReportsFailedRules(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.ReplaceRules([]models.Rule{
		{ID: 1, Pattern: "[unclosed", Priority: 10, Target: models.CategoryTarget(1)},
		{ID: 2, Pattern: "uber", Priority: 20, Target: models.CategoryTarget(2)},
	})
	seedTx(st, "UBER TRIP")

	driver := NewDriver(st, nil, nil, 0, nil)
	summary, err := driver.RecategorizeAll(ctx)
	require.NoError(t, err)
	require.Len(t, summary.FailedRules, 1)
	assert.Equal(t, "[unclosed", summary.FailedRules[0].Pattern)
	assert.Equal(t, 1, summary.Changed, "the valid rule still applies")
}

func TestBuildEngineSeedsExactMatches(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	exact := []store.ExactMatch{
		{Phrase: "UBER TRIP HELSINKI", Target: models.CategoryTarget(9)},
	}
	driver := NewDriver(st, nil, exact, 0, nil)

	engine, failed, err := driver.BuildEngine(ctx)
	require.NoError(t, err)
	assert.Empty(t, failed)

	result := engine.Classify("uber trip helsinki")
	assert.Equal(t, models.SourceExact, result.Source)
	assert.Equal(t, models.CategoryTarget(9), result.Target)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

package classify

import (
	"testing"

	"fjacquet/csv-classify/internal/models"
	"fjacquet/csv-classify/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEngine(t *testing.T, defs []models.Rule, model *Model) *Engine {
	t.Helper()
	set, failed := rules.Compile(defs)
	require.Empty(t, failed)
	return NewEngine(set, model, 0, nil)
}

func TestClassifyWaterfallOrder(t *testing.T) {
	defs := []models.Rule{
		{ID: 1, Pattern: "uber.*", Priority: 10, Target: models.CategoryTarget(4)},
	}
	engine := buildEngine(t, defs, nil)
	engine.AddExactMatch("UBER TRIP HELSINKI", models.CategoryTarget(9))

	tests := []struct {
		name           string
		description    string
		wantSource     models.Source
		wantTarget     models.TargetRef
		wantConfidence float64
	}{
		{
			name:           "Exact phrase beats the matching regex",
			description:    "  uber trip helsinki ",
			wantSource:     models.SourceExact,
			wantTarget:     models.CategoryTarget(9),
			wantConfidence: 1.0,
		},
		{
			name:           "Regex layer claims the rest",
			description:    "UBER EATS ZURICH",
			wantSource:     models.SourceRegex,
			wantTarget:     models.CategoryTarget(4),
			wantConfidence: 0.9,
		},
		{
			name:           "No layer matches",
			description:    "COOP PRONTO",
			wantSource:     models.SourceNone,
			wantTarget:     models.TargetRef{},
			wantConfidence: 0.0,
		},
		{
			name:           "Empty description short-circuits",
			description:    "   ",
			wantSource:     models.SourceNone,
			wantTarget:     models.TargetRef{},
			wantConfidence: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Classify(tt.description)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantTarget, got.Target)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassifyStatisticalFallback(t *testing.T) {
	model := NewModel()
	err := model.Train([]Sample{
		{Description: "espresso coffee beans roastery", CategoryID: 1},
		{Description: "coffee espresso cappuccino", CategoryID: 1},
		{Description: "latte coffee takeaway", CategoryID: 1},
		{Description: "salary payroll employer deposit", CategoryID: 2},
		{Description: "monthly payroll salary", CategoryID: 2},
	})
	require.NoError(t, err)
	require.True(t, model.Trained())

	engine := buildEngine(t, nil, model)

	got := engine.Classify("espresso coffee")
	assert.Equal(t, models.SourceStatistical, got.Source)
	assert.Equal(t, models.CategoryTarget(1), got.Target)
	assert.Greater(t, got.Confidence, DefaultConfidenceThreshold)

	// Tokens the model has never seen stay uncategorized.
	got = engine.Classify("xqzvw")
	assert.Equal(t, models.SourceNone, got.Source)
}

func TestClassifyRegexBeatsStatistical(t *testing.T) {
	model := NewModel()
	err := model.Train([]Sample{
		{Description: "uber trip", CategoryID: 1},
		{Description: "uber ride", CategoryID: 1},
		{Description: "salary deposit", CategoryID: 2},
	})
	require.NoError(t, err)

	defs := []models.Rule{
		{ID: 1, Pattern: "uber", Priority: 10, Target: models.CategoryTarget(8)},
	}
	engine := buildEngine(t, defs, model)

	got := engine.Classify("UBER TRIP 456")
	assert.Equal(t, models.SourceRegex, got.Source)
	assert.Equal(t, models.CategoryTarget(8), got.Target)
}

func TestExtractLabels(t *testing.T) {
	defs := []models.Rule{
		{ID: 1, Pattern: "coffee", Priority: 10, Target: models.CategoryTarget(1)},
		{ID: 2, Pattern: "coffee", Priority: 20, Target: models.LabelTarget(7)},
	}
	engine := buildEngine(t, defs, nil)

	assert.Equal(t, []int64{7}, engine.ExtractLabels("COFFEE SHOP"))
	assert.Nil(t, engine.ExtractLabels("  "))
	assert.Nil(t, engine.ExtractLabels("MIGROS"))
}

func TestApplyCategoryAndTransferExclusive(t *testing.T) {
	tx := &models.Transaction{Description: "test"}

	changed := Apply(tx, models.ClassificationResult{
		Target: models.CategoryTarget(3),
		Source: models.SourceRegex,
	}, nil)
	require.True(t, changed)
	require.NotNil(t, tx.CategoryID)
	assert.Equal(t, int64(3), *tx.CategoryID)
	assert.False(t, tx.IsTransfer)

	// Resolving a transfer clears the category.
	changed = Apply(tx, models.ClassificationResult{
		Target: models.TransferTarget(12),
		Source: models.SourceRegex,
	}, nil)
	require.True(t, changed)
	assert.Nil(t, tx.CategoryID)
	assert.True(t, tx.IsTransfer)
	require.NotNil(t, tx.ToAccountID)
	assert.Equal(t, int64(12), *tx.ToAccountID)

	// And a category clears the transfer link again.
	changed = Apply(tx, models.ClassificationResult{
		Target: models.CategoryTarget(5),
		Source: models.SourceExact,
	}, nil)
	require.True(t, changed)
	require.NotNil(t, tx.CategoryID)
	assert.Equal(t, int64(5), *tx.CategoryID)
	assert.False(t, tx.IsTransfer)
	assert.Nil(t, tx.ToAccountID)
}

func TestApplyIsIdempotent(t *testing.T) {
	tx := &models.Transaction{Description: "test"}
	result := models.ClassificationResult{Target: models.CategoryTarget(3), Source: models.SourceRegex}

	assert.True(t, Apply(tx, result, []int64{7}))
	assert.False(t, Apply(tx, result, []int64{7}), "re-applying the same result changes nothing")
	assert.Equal(t, []int64{7}, tx.LabelIDs)
}

func TestApplyManualProtection(t *testing.T) {
	cat := int64(99)
	tx := &models.Transaction{Description: "test", CategoryID: &cat, IsManual: true}

	changed := Apply(tx, models.ClassificationResult{
		Target: models.CategoryTarget(3),
		Source: models.SourceRegex,
	}, []int64{7})

	assert.True(t, changed, "label attachment still counts as a change")
	require.NotNil(t, tx.CategoryID)
	assert.Equal(t, int64(99), *tx.CategoryID, "manual category survives re-classification")
	assert.Equal(t, []int64{7}, tx.LabelIDs, "labels are applied even on manual rows")
}

func TestApplyLabelResultLeavesCategoryAlone(t *testing.T) {
	cat := int64(2)
	tx := &models.Transaction{Description: "test", CategoryID: &cat}

	changed := Apply(tx, models.ClassificationResult{
		Target: models.LabelTarget(7),
		Source: models.SourceRegex,
	}, []int64{7})

	assert.True(t, changed)
	require.NotNil(t, tx.CategoryID)
	assert.Equal(t, int64(2), *tx.CategoryID)
	assert.Equal(t, []int64{7}, tx.LabelIDs)
}

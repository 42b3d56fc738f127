package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetRef(t *testing.T) {
	assert.True(t, TargetRef{}.IsZero())
	assert.False(t, CategoryTarget(3).IsZero())

	assert.Equal(t, "none", TargetRef{}.String())
	assert.Equal(t, "category:3", CategoryTarget(3).String())
	assert.Equal(t, "transfer:12", TransferTarget(12).String())
	assert.Equal(t, "label:7", LabelTarget(7).String())
}

func TestAttachLabel(t *testing.T) {
	tx := &Transaction{}

	assert.False(t, tx.HasLabel(7))
	assert.True(t, tx.AttachLabel(7))
	assert.True(t, tx.HasLabel(7))
	assert.False(t, tx.AttachLabel(7), "attaching twice is a no-op")
	assert.True(t, tx.AttachLabel(9))
	assert.Equal(t, []int64{7, 9}, tx.LabelIDs)
}

func TestClassificationResultMatched(t *testing.T) {
	assert.False(t, Uncategorized().Matched())
	assert.True(t, ClassificationResult{Target: CategoryTarget(1), Source: SourceRegex}.Matched())
	assert.False(t, ClassificationResult{Source: SourceRegex}.Matched(), "a source without a target is not a match")
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ',', CSVProfile{}.DelimiterRune())
	assert.Equal(t, ';', CSVProfile{Delimiter: ";"}.DelimiterRune())
}

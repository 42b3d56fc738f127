package models

// Source identifies which layer of the waterfall produced a classification.
type Source string

const (
	// SourceNone means no layer matched.
	SourceNone Source = "none"
	// SourceExact is a hit in the exact-phrase dictionary.
	SourceExact Source = "exact"
	// SourceRegex is a hit in the compiled rule set.
	SourceRegex Source = "regex"
	// SourceStatistical is a prediction from the trained classifier.
	SourceStatistical Source = "statistical"
)

// Confidence levels reported by the deterministic layers. The statistical
// layer reports the model's own predicted probability instead.
const (
	ConfidenceExact = 1.0
	ConfidenceRegex = 0.9
)

// ClassificationResult is the outcome of running one description through
// the waterfall.
type ClassificationResult struct {
	Target     TargetRef `json:"target"`
	Source     Source    `json:"source"`
	Confidence float64   `json:"confidence"`
}

// Uncategorized is the result when no layer matches.
func Uncategorized() ClassificationResult {
	return ClassificationResult{Source: SourceNone, Confidence: 0.0}
}

// Matched reports whether any layer resolved a target.
func (r ClassificationResult) Matched() bool {
	return r.Source != SourceNone && !r.Target.IsZero()
}

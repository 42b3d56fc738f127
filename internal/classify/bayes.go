package classify

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"fjacquet/csv-classify/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/jbrukh/bayesian"
)

// Sample is one historical (description, category) assignment used to fit
// the statistical layer.
type Sample struct {
	Description string `csv:"description"`
	CategoryID  int64  `csv:"category_id"`
}

// Model is the optional statistical fallback of the waterfall: a naive
// bayes classifier over category IDs, trained on historical assignments.
// It is deliberately narrow — one classifier, one threshold, no tuning.
type Model struct {
	classifier *bayesian.Classifier
	ids        []int64
	trained    bool
}

// NewModel returns an untrained model. Until Train succeeds the
// statistical layer is skipped entirely.
func NewModel() *Model {
	return &Model{}
}

// Trained reports whether the model can produce predictions. Safe on nil.
func (m *Model) Trained() bool {
	return m != nil && m.trained
}

// Train fits the classifier on historical samples. Samples with an empty
// description are dropped. Training requires at least two usable samples
// spanning at least two distinct categories; anything less leaves the model
// untrained without error, matching the layer's optional nature.
func (m *Model) Train(samples []Sample) error {
	if m == nil {
		return fmt.Errorf("nil model")
	}

	usable := samples[:0:0]
	byCategory := make(map[int64][]Sample)
	for _, s := range samples {
		if strings.TrimSpace(s.Description) == "" {
			continue
		}
		usable = append(usable, s)
		byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
	}

	if len(usable) < 2 || len(byCategory) < 2 {
		return nil
	}

	ids := make([]int64, 0, len(byCategory))
	for id := range byCategory {
		ids = append(ids, id)
	}
	// Deterministic class order keeps predictions stable across runs.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	classes := make([]bayesian.Class, len(ids))
	for i, id := range ids {
		classes[i] = bayesian.Class(strconv.FormatInt(id, 10))
	}

	classifier := bayesian.NewClassifier(classes...)
	for _, s := range usable {
		classifier.Learn(tokenize(s.Description), bayesian.Class(strconv.FormatInt(s.CategoryID, 10)))
	}

	m.classifier = classifier
	m.ids = ids
	m.trained = true
	return nil
}

// Predict returns the most probable category for a description together
// with its posterior probability.
func (m *Model) Predict(description string) (int64, float64, bool) {
	if !m.Trained() {
		return 0, 0, false
	}
	tokens := tokenize(description)
	if len(tokens) == 0 {
		return 0, 0, false
	}
	scores, inx, _ := m.classifier.ProbScores(tokens)
	if inx < 0 || inx >= len(m.ids) {
		return 0, 0, false
	}
	return m.ids[inx], scores[inx], true
}

// Save persists a trained classifier to disk (gob encoding provided by the
// bayesian package).
func (m *Model) Save(path string) error {
	if !m.Trained() {
		return fmt.Errorf("cannot save an untrained model")
	}
	return m.classifier.WriteToFile(path)
}

// LoadModel restores a classifier saved by Save. The category IDs are
// recovered from the persisted class names.
func LoadModel(path string) (*Model, error) {
	classifier, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading model from %s: %w", path, err)
	}
	ids := make([]int64, len(classifier.Classes))
	for i, class := range classifier.Classes {
		id, err := strconv.ParseInt(string(class), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("model file %s has malformed class '%s': %w", path, class, err)
		}
		ids[i] = id
	}
	return &Model{classifier: classifier, ids: ids, trained: true}, nil
}

// TrainFromCSV fits a new model from a CSV stream with "description" and
// "category_id" columns.
func TrainFromCSV(r io.Reader) (*Model, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(r, &samples); err != nil {
		return nil, fmt.Errorf("error parsing training CSV: %w", err)
	}
	m := NewModel()
	if err := m.Train(samples); err != nil {
		return nil, err
	}
	return m, nil
}

// SamplesFromTransactions collects training samples from already
// categorized transactions (transfers and uncategorized rows are skipped).
func SamplesFromTransactions(txns []models.Transaction) []Sample {
	var samples []Sample
	for _, tx := range txns {
		if tx.CategoryID == nil || tx.IsTransfer {
			continue
		}
		if strings.TrimSpace(tx.Description) == "" {
			continue
		}
		samples = append(samples, Sample{
			Description: tx.Description,
			CategoryID:  *tx.CategoryID,
		})
	}
	return samples
}

var tokenRe = regexp.MustCompile(`[^a-z0-9]+`)

// tokenize lowercases a description and splits it on non-alphanumeric runs.
func tokenize(description string) []string {
	parts := tokenRe.Split(strings.ToLower(description), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Package importer runs the CSV import pipeline: extraction, account
// resolution, classification, and atomic insert-or-reject against the
// dedup key.
package importer

import (
	"context"
	"fmt"
	"io"
	"sort"

	"fjacquet/csv-classify/internal/classify"
	"fjacquet/csv-classify/internal/dedup"
	"fjacquet/csv-classify/internal/extract"
	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/models"
	"fjacquet/csv-classify/internal/parsererror"
	"fjacquet/csv-classify/internal/store"

	"github.com/google/uuid"
)

// Summary reports one import batch. Duplicates and parse skips are
// expected, non-fatal outcomes; unmapped account tokens are surfaced
// separately so the user can extend the profile's account mapping.
type Summary struct {
	ImportID         uuid.UUID
	Imported         int
	Duplicates       int
	Skipped          int
	UnmappedAccounts []string
}

// Importer wires the extractor, the classification engine, and the store
// into the import pipeline.
type Importer struct {
	store     store.Store
	engine    *classify.Engine
	extractor *extract.Extractor
	logger    logging.Logger
}

// NewImporter creates an Importer around a classification engine snapshot.
func NewImporter(st store.Store, engine *classify.Engine, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Importer{
		store:     st,
		engine:    engine,
		extractor: extract.NewExtractor(logger),
		logger:    logger,
	}
}

// ImportCSV imports one statement file into the given account. Rows whose
// account token resolves through the profile's account mapping go to the
// mapped account instead. Re-importing the same file yields zero new
// transactions: every row is rejected as a duplicate of its dedup key.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader, profile models.CSVProfile, accountID int64) (Summary, error) {
	summary := Summary{ImportID: uuid.New()}

	exists, err := i.store.LookupAccountByID(ctx, accountID)
	if err != nil {
		return summary, fmt.Errorf("error looking up account %d: %w", accountID, err)
	}
	if !exists {
		return summary, fmt.Errorf("account %d does not exist", accountID)
	}

	extracted, err := i.extractor.Extract(r, profile)
	if err != nil {
		return summary, err
	}
	summary.Skipped = extracted.Skipped

	unmapped := make(map[string]struct{})
	for _, candidate := range extracted.Candidates {
		rowAccount := accountID
		if candidate.AccountString != "" {
			mapped, ok := profile.ColumnMapping.AccountMapping[candidate.AccountString]
			if !ok {
				i.logger.WithError(&parsererror.UnmappedAccountError{Token: candidate.AccountString}).
					Debug("Skipping row with unmapped account token")
				unmapped[candidate.AccountString] = struct{}{}
				summary.Skipped++
				continue
			}
			rowAccount = mapped
		}

		key := dedup.Key(candidate.Date, candidate.Amount, candidate.Description, rowAccount)
		tx := models.Transaction{
			Date:        candidate.Date,
			Amount:      candidate.Amount,
			Description: candidate.Description,
			AccountID:   rowAccount,
			RawData:     candidate.RawData,
		}

		result := i.engine.Classify(tx.Description)
		labels := i.engine.ExtractLabels(tx.Description)
		classify.Apply(&tx, result, labels)

		outcome, err := i.store.InsertTransactionIfAbsent(ctx, &tx, key)
		if err != nil {
			return summary, fmt.Errorf("error inserting transaction: %w", err)
		}
		if outcome == store.Duplicate {
			summary.Duplicates++
			continue
		}
		summary.Imported++
	}

	for token := range unmapped {
		summary.UnmappedAccounts = append(summary.UnmappedAccounts, token)
	}
	sort.Strings(summary.UnmappedAccounts)

	i.logger.WithFields(
		logging.F("import_id", summary.ImportID),
		logging.F("imported", summary.Imported),
		logging.F("duplicates", summary.Duplicates),
		logging.F("skipped", summary.Skipped),
		logging.F("unmapped_accounts", len(summary.UnmappedAccounts)),
	).Info("Import complete")

	return summary, nil
}

// Package extract applies a column-mapping profile to a CSV statement
// export and produces normalized transaction candidates. Rows are processed
// independently: one bad row is skipped and counted, never aborting the
// rest of the import.
package extract

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/models"
	"fjacquet/csv-classify/internal/normalize"
	"fjacquet/csv-classify/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Result aggregates one extraction pass.
type Result struct {
	Candidates []models.Candidate
	// Skipped counts rows dropped over a missing or unparseable date,
	// an unreadable record, or a missing date column.
	Skipped int
}

// Extractor reads profile-driven CSV statements.
type Extractor struct {
	logger logging.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Extractor{logger: logger}
}

// Extract performs a single pass over the CSV stream. Per-row failures are
// recovered locally into the skip counter; a malformed profile or a
// structurally unreadable stream returns a hard error.
func (e *Extractor) Extract(r io.Reader, profile models.CSVProfile) (Result, error) {
	if err := validateProfile(profile); err != nil {
		return Result{}, err
	}

	reader := csv.NewReader(r)
	reader.Comma = profile.DelimiterRune()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader, profile.HeaderRow)
	if err != nil {
		return Result{}, &parsererror.ProfileError{
			Profile: profile.Name,
			Reason:  "unreadable CSV stream",
			Err:     err,
		}
	}

	var res Result
	row := profile.HeaderRow
	for {
		row++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				e.logger.WithError(err).WithField("row", row).Debug("Skipping unreadable CSV record")
				res.Skipped++
				continue
			}
			return Result{}, &parsererror.ProfileError{
				Profile: profile.Name,
				Reason:  "unreadable CSV stream",
				Err:     err,
			}
		}

		candidate, err := e.extractRow(record, header, profile, row)
		if err != nil {
			e.logger.WithError(err).WithField("row", row).Debug("Skipping row")
			res.Skipped++
			continue
		}
		res.Candidates = append(res.Candidates, candidate)
	}

	e.logger.WithFields(
		logging.F("profile", profile.Name),
		logging.F("candidates", len(res.Candidates)),
		logging.F("skipped", res.Skipped),
	).Info("Extracted transaction candidates from CSV")

	return res, nil
}

// readHeader skips the configured number of leading rows and reads the
// header record, returning a column-name index.
func readHeader(reader *csv.Reader, skip int) (map[string]int, error) {
	for i := 0; i < skip; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}
	record, err := reader.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(record))
	for i, name := range record {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[strings.TrimSpace(name)] = i
	}
	return header, nil
}

func (e *Extractor) extractRow(record []string, header map[string]int, profile models.CSVProfile, row int) (models.Candidate, error) {
	mapping := profile.ColumnMapping
	cell := func(column string) (string, bool) {
		idx, ok := header[column]
		if !ok || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}

	rawDate, ok := cell(mapping.Date)
	if !ok || rawDate == "" {
		return models.Candidate{}, &parsererror.RowError{
			Row: row, Field: "date", Value: rawDate,
			Err: errors.New("missing date cell"),
		}
	}
	date, err := normalize.Date(rawDate, profile.DateFormat)
	if err != nil {
		return models.Candidate{}, &parsererror.RowError{
			Row: row, Field: "date", Value: rawDate, Err: err,
		}
	}

	// Amount: either a single signed column, optionally corrected by a
	// credit/debit indicator, or separate unsigned credit/debit columns.
	var amount decimal.Decimal
	if mapping.Amount != "" {
		raw, _ := cell(mapping.Amount)
		amount = normalize.Amount(raw)
		if mapping.AmountType != "" {
			if indicator, ok := cell(mapping.AmountType); ok {
				amount = normalize.ApplyIndicator(amount, indicator,
					mapping.CreditIndicators, mapping.DebitIndicators)
			}
		}
	} else {
		var credit, debit decimal.Decimal
		if raw, ok := cell(mapping.Credit); ok && raw != "" {
			credit = normalize.Amount(raw).Abs()
		}
		if raw, ok := cell(mapping.Debit); ok && raw != "" {
			debit = normalize.Amount(raw).Abs()
		}
		amount = credit.Sub(debit)
	}
	if mapping.InvertAmount {
		amount = amount.Neg()
	}

	var descParts []string
	for _, column := range mapping.Description {
		if value, ok := cell(column); ok && value != "" {
			descParts = append(descParts, value)
		}
	}
	description := strings.Join(descParts, " | ")

	var accountString string
	if mapping.Account != "" {
		accountString, _ = cell(mapping.Account)
	}

	// Retain the original key/value snapshot for audit and export.
	raw := make(map[string]string, len(header))
	for name, idx := range header {
		if idx < len(record) {
			raw[name] = record[idx]
		}
	}

	return models.Candidate{
		Date:          date,
		Amount:        amount,
		Description:   description,
		AccountString: accountString,
		RawData:       raw,
	}, nil
}

func validateProfile(profile models.CSVProfile) error {
	mapping := profile.ColumnMapping
	switch {
	case mapping.Date == "":
		return &parsererror.ProfileError{Profile: profile.Name, Reason: "no date column mapped"}
	case len(mapping.Description) == 0:
		return &parsererror.ProfileError{Profile: profile.Name, Reason: "no description column mapped"}
	case mapping.Amount == "" && mapping.Credit == "" && mapping.Debit == "":
		return &parsererror.ProfileError{Profile: profile.Name, Reason: "no amount or credit/debit column mapped"}
	}
	return nil
}

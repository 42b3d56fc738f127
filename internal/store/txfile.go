package store

import (
	"fmt"
	"os"
	"time"

	"fjacquet/csv-classify/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// transactionDoc is the on-disk transaction shape. Amount and date are
// plain strings so snapshots stay human-editable and diff-friendly.
type transactionDoc struct {
	ID          int64             `yaml:"id"`
	Date        string            `yaml:"date"`
	Amount      string            `yaml:"amount"`
	Description string            `yaml:"description"`
	AccountID   int64             `yaml:"account_id"`
	RawData     map[string]string `yaml:"raw_data,omitempty"`
	CategoryID  *int64            `yaml:"category_id,omitempty"`
	IsTransfer  bool              `yaml:"is_transfer,omitempty"`
	ToAccountID *int64            `yaml:"to_account_id,omitempty"`
	LabelIDs    []int64           `yaml:"label_ids,omitempty"`
	IsManual    bool              `yaml:"is_manual,omitempty"`
	Hash        string            `yaml:"hash,omitempty"`
}

type transactionFileDoc struct {
	Transactions []transactionDoc `yaml:"transactions"`
}

const snapshotDateLayout = "2006-01-02"

// LoadTransactions reads a transaction snapshot from a YAML file.
func LoadTransactions(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading transactions file: %w", err)
	}
	var doc transactionFileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing transactions file %s: %w", path, err)
	}

	txns := make([]models.Transaction, 0, len(doc.Transactions))
	for i, td := range doc.Transactions {
		date, err := time.Parse(snapshotDateLayout, td.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d in %s has a bad date %q: %w", i+1, path, td.Date, err)
		}
		amount, err := decimal.NewFromString(td.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d in %s has a bad amount %q: %w", i+1, path, td.Amount, err)
		}
		txns = append(txns, models.Transaction{
			ID:          td.ID,
			Date:        date,
			Amount:      amount,
			Description: td.Description,
			AccountID:   td.AccountID,
			RawData:     td.RawData,
			CategoryID:  td.CategoryID,
			IsTransfer:  td.IsTransfer,
			ToAccountID: td.ToAccountID,
			LabelIDs:    td.LabelIDs,
			IsManual:    td.IsManual,
			Hash:        td.Hash,
		})
	}
	return txns, nil
}

// SaveTransactions writes a transaction snapshot to a YAML file.
func SaveTransactions(path string, txns []models.Transaction) error {
	doc := transactionFileDoc{Transactions: make([]transactionDoc, 0, len(txns))}
	for _, tx := range txns {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			ID:          tx.ID,
			Date:        tx.Date.Format(snapshotDateLayout),
			Amount:      tx.Amount.String(),
			Description: tx.Description,
			AccountID:   tx.AccountID,
			RawData:     tx.RawData,
			CategoryID:  tx.CategoryID,
			IsTransfer:  tx.IsTransfer,
			ToAccountID: tx.ToAccountID,
			LabelIDs:    tx.LabelIDs,
			IsManual:    tx.IsManual,
			Hash:        tx.Hash,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling transactions: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing transactions file: %w", err)
	}
	return nil
}

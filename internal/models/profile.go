package models

// ColumnMapping binds CSV header names to transaction fields. Either Amount
// (single signed column, optionally with an AmountType indicator column) or
// Credit/Debit (separate unsigned columns) must be set.
type ColumnMapping struct {
	Date        string   `json:"date" yaml:"date"`
	Amount      string   `json:"amount,omitempty" yaml:"amount,omitempty"`
	Credit      string   `json:"credit,omitempty" yaml:"credit,omitempty"`
	Debit       string   `json:"debit,omitempty" yaml:"debit,omitempty"`
	Description []string `json:"description" yaml:"description"`

	// AmountType names a credit/debit indicator column. Tokens are compared
	// case-insensitively against the indicator sets below.
	AmountType       string   `json:"amount_type,omitempty" yaml:"amount_type,omitempty"`
	CreditIndicators []string `json:"credit_indicators,omitempty" yaml:"credit_indicators,omitempty"`
	DebitIndicators  []string `json:"debit_indicators,omitempty" yaml:"debit_indicators,omitempty"`

	// InvertAmount flips the final sign, after indicators are applied.
	InvertAmount bool `json:"invert_amount,omitempty" yaml:"invert_amount,omitempty"`

	// Account names a column carrying an account token for multi-account
	// statement files. AccountMapping resolves tokens to account IDs.
	Account        string           `json:"account,omitempty" yaml:"account,omitempty"`
	AccountMapping map[string]int64 `json:"account_mapping,omitempty" yaml:"account_mapping,omitempty"`
}

// CSVProfile describes how to read one bank's statement export.
type CSVProfile struct {
	Name          string        `json:"name" yaml:"name"`
	ColumnMapping ColumnMapping `json:"column_mapping" yaml:"column_mapping"`

	// DateFormat is a Go time layout tried after flexible parsing fails.
	DateFormat string `json:"date_format,omitempty" yaml:"date_format,omitempty"`
	Delimiter  string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`

	// HeaderRow is the number of leading rows to skip before the header.
	HeaderRow int `json:"header_row,omitempty" yaml:"header_row,omitempty"`
}

// DelimiterRune returns the configured delimiter, defaulting to comma.
func (p CSVProfile) DelimiterRune() rune {
	if p.Delimiter == "" {
		return ','
	}
	return []rune(p.Delimiter)[0]
}

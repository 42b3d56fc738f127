// Package parsererror defines the error taxonomy for CSV import and rule
// compilation. Row- and rule-level failures are recovered locally and
// aggregated into summaries; only structural errors abort an operation.
package parsererror

import "fmt"

// RowError represents a failure to parse a single CSV row. The row is
// skipped and the import continues.
type RowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v",
		e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// RuleError represents a rule pattern that failed to compile. The rule is
// excluded from the active set and reported; compilation of the remaining
// rules proceeds.
type RuleError struct {
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule pattern '%s' failed to compile: %v", e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// UnmappedAccountError represents a multi-account import row whose account
// token has no mapping. The row is skipped and the token surfaced to the
// caller for manual mapping, distinct from ordinary parse failures.
type UnmappedAccountError struct {
	Token string
}

func (e *UnmappedAccountError) Error() string {
	return fmt.Sprintf("no account mapping for token '%s'", e.Token)
}

// ProfileError represents a structurally unusable import: an unreadable CSV
// byte stream or a malformed profile. It aborts the whole operation.
type ProfileError struct {
	Profile string
	Reason  string
	Err     error
}

func (e *ProfileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("profile '%s': %s: %v", e.Profile, e.Reason, e.Err)
	}
	return fmt.Sprintf("profile '%s': %s", e.Profile, e.Reason)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

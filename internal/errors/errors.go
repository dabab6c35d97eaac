// Package errors implements the error taxonomy of spec §7: one struct per
// kind. ParseError, CorruptWALError and StorageError wrap an underlying
// cause (Unwrap) for errors.Is/As composition; the other kinds carry none.
package errors

import (
	"fmt"
	"time"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// ErrorType is the closed taxonomy of spec §7.
type ErrorType string

const (
	ErrorTypeParse             ErrorType = "parse_error"
	ErrorTypeMissingSymbol     ErrorType = "missing_symbol"
	ErrorTypeMissingDependency ErrorType = "missing_dependency"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypeCorruptWAL        ErrorType = "corrupt_wal"
	ErrorTypeStorage           ErrorType = "storage_error"
	ErrorTypeInvalidInput      ErrorType = "invalid_input"
	ErrorTypeInternal          ErrorType = "internal_error"
)

// ParseError: AST construction failed for a file. Logged per file; the
// pipeline continues with other files (spec §7 principle 1).
type ParseError struct {
	FilePath   string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

func NewParseError(path string, line, column int, token string, err error) *ParseError {
	return &ParseError{FilePath: path, Line: line, Column: column, Token: token, Underlying: err, Timestamp: time.Now()}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s:%d:%d (token %q): %v", e.FilePath, e.Line, e.Column, e.Token, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// MissingSymbolError: the resolver found no match. Returned as
// success=false, not raised (spec §7).
type MissingSymbolError struct {
	Query     string
	Timestamp time.Time
}

func NewMissingSymbolError(query string) *MissingSymbolError {
	return &MissingSymbolError{Query: query, Timestamp: time.Now()}
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("no symbol matched query %q", e.Query)
}

// MissingDependencyError: an upstream cache is missing for a pipeline
// stage. Fatal for that job (spec §7).
type MissingDependencyError struct {
	Stage      string
	Dependency string
	Timestamp  time.Time
}

func NewMissingDependencyError(stage, dependency string) *MissingDependencyError {
	return &MissingDependencyError{Stage: stage, Dependency: dependency, Timestamp: time.Now()}
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("stage %s missing dependency %s", e.Stage, e.Dependency)
}

// TimeoutError: a deadline expired or max_iterations was hit. Returned as
// a partial result with a downgraded verdict (spec §7, §5).
type TimeoutError struct {
	Operation string
	Limit     string // e.g. "max_iterations=50000" or "deadline=2026-01-01T00:00:00Z"
	Verdict   types.Verdict
	Timestamp time.Time
}

func NewTimeoutError(operation, limit string) *TimeoutError {
	return &TimeoutError{Operation: operation, Limit: limit, Verdict: types.VerdictHeuristic, Timestamp: time.Now()}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s exceeded %s, verdict downgraded to %s", e.Operation, e.Limit, e.Verdict)
}

// CorruptWALError: checksum mismatch or truncated entry. Recovery returns
// the valid prefix; downstream indexes are forced to rebuild (spec §7).
type CorruptWALError struct {
	TxnID       string
	ByteOffset  int64
	ValidPrefix int
	Underlying  error
	Timestamp   time.Time
}

func NewCorruptWALError(txnID string, offset int64, validPrefix int, err error) *CorruptWALError {
	return &CorruptWALError{TxnID: txnID, ByteOffset: offset, ValidPrefix: validPrefix, Underlying: err, Timestamp: time.Now()}
}

func (e *CorruptWALError) Error() string {
	return fmt.Sprintf("WAL corruption at offset %d (txn %s), %d valid entries recovered: %v", e.ByteOffset, e.TxnID, e.ValidPrefix, e.Underlying)
}

func (e *CorruptWALError) Unwrap() error { return e.Underlying }

// StorageError: the underlying store failed. Surfaced to the caller; the
// snapshot remains unchanged (spec §7).
type StorageError struct {
	Operation  string
	Underlying error
	Timestamp  time.Time
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Operation: op, Underlying: err, Timestamp: time.Now()}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Operation, e.Underlying)
}

func (e *StorageError) Unwrap() error { return e.Underlying }

// InvalidInputError: a query was malformed. Rejected at the facade
// boundary (spec §7).
type InvalidInputError struct {
	Field     string
	Reason    string
	Timestamp time.Time
}

func NewInvalidInputError(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason, Timestamp: time.Now()}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

// InternalError: an invariant was violated. Fatal to the containing
// operation; state must remain consistent (spec §7).
type InternalError struct {
	Invariant string
	Context   string
	Timestamp time.Time
}

func NewInternalError(invariant, context string) *InternalError {
	return &InternalError{Invariant: invariant, Context: context, Timestamp: time.Now()}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal invariant violated (%s): %s", e.Invariant, e.Context)
}

// MultiError aggregates independent per-file failures so that one file's
// ParseError never poisons the others (spec §7 principle 1).
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors[0])
	}
}

func (e *MultiError) Unwrap() []error { return e.Errors }

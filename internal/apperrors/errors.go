package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

var (
	ErrInactiveAccount       = errors.New("account is inactive")
	ErrInvalidEntry          = errors.New("invalid entry")
	ErrImbalancedTransaction = errors.New("transaction debits and credits do not balance")
	ErrPostingFailed         = errors.New("posting failed and was rolled back")
	ErrStorage               = errors.New("storage failure")
	ErrAccountInUse          = errors.New("entries reference this account")
)

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a message for field, keeping the first message if one exists.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports a uniqueness or state conflict, e.g. a duplicate account code.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
	Reason   string
	Err      error
}

// NewAccountInUseError reports that posted entries pin an account's code, type or existence.
func NewAccountInUseError(code string) *ConflictError {
	return &ConflictError{Resource: "account", Value: code, Reason: ErrAccountInUse.Error(), Err: ErrAccountInUse}
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s %s: %s", ErrConflict, e.Resource, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: %s with %s %q already exists", ErrConflict, e.Resource, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || target == ErrDuplicate
}

func (e *ConflictError) Unwrap() error { return e.Err }

// NotFoundError reports an unknown identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InactiveAccountError reports a posting against a deactivated account.
type InactiveAccountError struct {
	AccountID string
	Index     int
}

func (e *InactiveAccountError) Error() string {
	return fmt.Sprintf("entry %d: account %s is inactive", e.Index, e.AccountID)
}

func (e *InactiveAccountError) Is(target error) bool { return target == ErrInactiveAccount }

// InvalidEntryError reports a malformed entry at Index.
type InvalidEntryError struct {
	Index  int
	Reason string
	Err    error
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("%s at index %d: %s", ErrInvalidEntry, e.Index, e.Reason)
}

func (e *InvalidEntryError) Is(target error) bool { return target == ErrInvalidEntry }

func (e *InvalidEntryError) Unwrap() error { return e.Err }

// ImbalancedTransactionError carries the computed totals in minor units.
type ImbalancedTransactionError struct {
	TotalDebit  int64
	TotalCredit int64
}

func (e *ImbalancedTransactionError) Error() string {
	return fmt.Sprintf("%s: debits sum is %s and credits sum is %s",
		ErrImbalancedTransaction,
		decimal.New(e.TotalDebit, -2).StringFixed(2),
		decimal.New(e.TotalCredit, -2).StringFixed(2))
}

func (e *ImbalancedTransactionError) Is(target error) bool { return target == ErrImbalancedTransaction }

// PostingFailedError means a write started and was rolled back.
type PostingFailedError struct {
	Operation     string
	TransactionID string
	Cause         error
}

func (e *PostingFailedError) Error() string {
	return fmt.Sprintf("%s: %s of transaction %s: %v", ErrPostingFailed, e.Operation, e.TransactionID, e.Cause)
}

func (e *PostingFailedError) Is(target error) bool { return target == ErrPostingFailed }

func (e *PostingFailedError) Unwrap() error { return e.Cause }

// StorageError wraps a failure reported by a persistence adapter.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err with the failing adapter operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

// Package facade is vaultgraph's single entry point: it orchestrates the
// Scanner, Resolver, and GraphEngine over the Store, returns plain value
// objects, and raises the typed error kinds below rather than leaking
// internal error types.
package facade

import (
	"errors"
	"fmt"
)

var (
	ErrVaultNotFound  = errors.New("facade: vault not found")
	ErrNoteNotFound   = errors.New("facade: note not found")
	ErrInvalidPath    = errors.New("facade: invalid path")
	ErrScanFailed     = errors.New("facade: scan failed")
	ErrAnalysisFailed = errors.New("facade: analysis failed")
	ErrStoreFailure   = errors.New("facade: store failure")
	ErrSchemaMismatch = errors.New("facade: schema mismatch")
)

// Kind names the error taxonomy, for machine-readable (--json) error
// output.
type Kind string

const (
	KindVaultNotFound  Kind = "VaultNotFound"
	KindNoteNotFound   Kind = "NoteNotFound"
	KindInvalidPath    Kind = "InvalidPath"
	KindScanError      Kind = "ScanError"
	KindAnalysisError  Kind = "AnalysisError"
	KindStoreError     Kind = "StoreError"
	KindSchemaMismatch Kind = "SchemaMismatch"
)

// Error is the typed error every Facade method raises. Cause is unwrapped
// so callers can still match the underlying sentinel or store error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindVaultNotFound:
		return target == ErrVaultNotFound
	case KindNoteNotFound:
		return target == ErrNoteNotFound
	case KindInvalidPath:
		return target == ErrInvalidPath
	case KindScanError:
		return target == ErrScanFailed
	case KindAnalysisError:
		return target == ErrAnalysisFailed
	case KindStoreError:
		return target == ErrStoreFailure
	case KindSchemaMismatch:
		return target == ErrSchemaMismatch
	}
	return false
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

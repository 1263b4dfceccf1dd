package store

import (
	"errors"
	"fmt"
)

// Sentinel errors the Store raises.
var (
	ErrNotFound          = errors.New("store: resource not found")
	ErrUniquenessViolation = errors.New("store: uniqueness violation")
	ErrSchemaMismatch    = errors.New("store: schema version mismatch")
)

// NotFoundError reports a missing resource by kind and id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: %s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UniquenessViolation reports a broken uniqueness invariant, e.g. a
// duplicate (vault_id, relative_path) pair.
type UniquenessViolation struct {
	Resource string
	Field    string
	Value    string
}

func (e *UniquenessViolation) Error() string {
	return fmt.Sprintf("store: %s with %s %q already exists", e.Resource, e.Field, e.Value)
}

func (e *UniquenessViolation) Is(target error) bool { return target == ErrUniquenessViolation }

// SchemaMismatchError reports that the opened database's schema_version
// does not match what this build of the code expects.
type SchemaMismatchError struct {
	Found    int
	Expected int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("store: schema version %d found, code expects %d", e.Found, e.Expected)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

package models

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrHasChildren    = errors.New("category has child categories")
	ErrValidation     = errors.New("validation failed")
	ErrStore          = errors.New("store operation failed")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrUnsupportedDatabaseDriver       = errors.New("unsupported database driver")
)

// CategoryNotFoundError is returned when a referenced category (target or parent) does not exist.
type CategoryNotFoundError struct {
	ID int64
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %d not found", e.ID)
}

func (e *CategoryNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

// HasChildrenError is returned when deleting a category that still has active children.
type HasChildrenError struct {
	ID       int64
	Children int64
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("category %d has %d child categories", e.ID, e.Children)
}

func (e *HasChildrenError) Is(target error) bool {
	return target == ErrHasChildren
}

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps a failure of the relational store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError wraps err unless it is nil or already a domain error.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *CategoryNotFoundError
	var se *StoreError
	if errors.As(err, &nf) || errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

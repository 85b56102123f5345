// Package apperr defines the business-rule failure taxonomy shared by the
// user, catalog, and order services. All of these are synchronous,
// non-retryable failures that propagate unchanged to the transport layer.
package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials deliberately does not distinguish an unknown email
// from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

type NotFoundError struct {
	Resource string
	Field    string
	Key      any
}

func NotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, Field: "id", Key: id}
}

func NotFoundBy(resource, field string, key any) *NotFoundError {
	return &NotFoundError{Resource: resource, Field: field, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: %v", e.Resource, e.Field, e.Key)
}

type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

type DuplicateError struct {
	Resource string
	Field    string
	Value    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists with %s: %s", e.Resource, e.Field, e.Value)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

func IsDuplicate(err error) bool {
	var d *DuplicateError
	return errors.As(err, &d)
}

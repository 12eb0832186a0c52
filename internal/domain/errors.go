package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// Entity kinds distinguished by NotFoundError.
const (
	KindCurrency      = "Currency"
	KindProduct       = "Product"
	KindCategory      = "Category"
	KindAttributeItem = "Attribute item"
	KindOrder         = "Order"
)

// NotFoundError reports a missing entity by kind and identifier. It wraps
// ErrNotFound so callers can keep using errors.Is(err, ErrNotFound).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s with ID '%s' not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports the first business rule an order mutation
// violated. Validation short-circuits, so Reason names exactly one
// condition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "order validation failed: " + e.Reason
}

// IsNotFound reports whether err is a missing-entity error of any kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a business-rule violation.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

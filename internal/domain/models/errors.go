package models

import (
	"errors"
	"fmt"
	"strings"
)

// Domain-level errors for validation and business logic.
// These errors are defined in the domain layer and can be used
// throughout the application.

var (
	// Request validation errors
	ErrEmptyQuery = errors.New("query is required")

	// Provider errors
	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderDisabled = errors.New("provider is disabled")

	// Catalog errors
	ErrNoModelsInClass = errors.New("no models available in size class")
	ErrUnknownModel    = errors.New("model not found in catalog")
)

// RoutingError is the terminal error returned when the chosen model and its
// single fallback hop have both failed. Attempted lists the model keys in
// the order they were tried.
type RoutingError struct {
	Attempted []string
	Err       error
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("all attempted models failed (tried %s): %v",
		strings.Join(e.Attempted, ", "), e.Err)
}

func (e *RoutingError) Unwrap() error {
	return e.Err
}

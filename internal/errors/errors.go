// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrSessionNotFound indicates no dialog session exists for the user.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnsupportedRegion indicates a location outside the region catalog.
	ErrUnsupportedRegion = errors.New("unsupported region")

	// ErrMissingAPIKey indicates a required external API key is not configured.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// GeocoderError represents reverse-geocoding failures with context.
// The resolver folds these into a "no match" result; the type exists so
// logs and metrics can distinguish service failures from genuine misses.
type GeocoderError struct {
	Status     string // Geocoding API status field, if a response was received
	StatusCode int    // HTTP status code, if any
	Err        error
}

func (e *GeocoderError) Error() string {
	switch {
	case e.Status != "":
		return fmt.Sprintf("geocoder error (status=%s): %v", e.Status, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("geocoder error (http=%d): %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("geocoder error: %v", e.Err)
	}
}

func (e *GeocoderError) Unwrap() error {
	return e.Err
}

// NewGeocoderError creates a new geocoder error.
func NewGeocoderError(status string, statusCode int, err error) *GeocoderError {
	return &GeocoderError{
		Status:     status,
		StatusCode: statusCode,
		Err:        err,
	}
}

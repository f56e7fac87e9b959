// Package errors provides custom error types for the sync engine.
// These errors enable programmatic error checking at the orchestration
// boundary, where per-application failures are collected rather than
// propagated, and credential failures abort the run.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Join is an alias for the standard library errors.Join.
var Join = errors.Join

// Common sentinel errors for the sync engine
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCredential indicates that a bearer token could not be obtained.
	// No directory call can succeed after this, so it is fatal to the run.
	ErrCredential = errors.New("credential refresh failed")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrUnsupported indicates an unsupported source or destination
	ErrUnsupported = errors.New("unsupported")
)

// CredentialError represents a failure to obtain or refresh the directory
// bearer token. It aborts the run.
type CredentialError struct {
	Tenant  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *CredentialError) Error() string {
	if e.Tenant != "" {
		return fmt.Sprintf("failed to get access token for tenant %s: %s", e.Tenant, e.Message)
	}
	return fmt.Sprintf("failed to get access token: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CredentialError) Is(target error) bool {
	return target == ErrCredential
}

// NewCredentialError creates a new CredentialError
func NewCredentialError(tenant string, err error) *CredentialError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &CredentialError{Tenant: tenant, Message: message, Err: err}
}

// FetchError represents a directory-side read failure. It is fatal to the
// enclosing application's roster build but not to the run.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch from %s failed (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch from %s failed: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// WrapFetch wraps an error as a FetchError for the given endpoint
func WrapFetch(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Endpoint: endpoint, Message: err.Error(), Err: err}
}

// ResolutionError represents a group or user expansion failure.
// Same scope as FetchError: the enclosing application fails, the run continues.
type ResolutionError struct {
	Kind string // "group" or "user"
	ID   string
	Err  error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s %s: %v", e.Kind, e.ID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// DestinationError represents a workspace/service resolution failure on the
// governance side. It aborts reconciliation for that application only.
type DestinationError struct {
	Operation string // "find service", "create workspace", "list accounts"
	Workspace string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *DestinationError) Error() string {
	if e.Workspace != "" {
		return fmt.Sprintf("destination %s failed for workspace %s: %s", e.Operation, e.Workspace, e.Message)
	}
	return fmt.Sprintf("destination %s failed: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DestinationError) Unwrap() error {
	return e.Err
}

// WriteChunkError represents a failed bulk write of one chunk. Chunks already
// applied are not rolled back; a re-run converges since the plan is idempotent.
type WriteChunkError struct {
	Workspace string
	Class     string // "create", "update", or "delete"
	Size      int
	Err       error
}

// Error implements the error interface
func (e *WriteChunkError) Error() string {
	return fmt.Sprintf("failed to write %s chunk of %d accounts to workspace %s: %v", e.Class, e.Size, e.Workspace, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteChunkError) Unwrap() error {
	return e.Err
}

// SyncError represents a per-application sync failure, collected by the
// orchestrator and reported at the end of the run.
type SyncError struct {
	App string
	Err error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed for application %s: %v", e.App, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigError represents a configuration error
type ConfigError struct {
	Key     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when decoding an API response or a
// mapping document
type ParseError struct {
	Format  string // "json", "yaml"
	Subject string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Subject: subject, Message: err.Error(), Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCredential checks if an error is fatal to the run
func IsCredential(err error) bool {
	return errors.Is(err, ErrCredential)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

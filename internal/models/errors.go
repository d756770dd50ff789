// Package models defines typed errors for better error handling and context.
package models

import "fmt"

// ConfigurationError represents an invalid or empty configuration value.
// It is raised at construction time and is fatal for the crawl.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InteractionTimeoutError represents a single DOM query or click that
// exceeded its bound. It is always recovered locally by the consent engine.
type InteractionTimeoutError struct {
	Operation string
	Timeout   string
	Err       error
}

func (e *InteractionTimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s after %s: %v", e.Operation, e.Timeout, e.Err)
}

func (e *InteractionTimeoutError) Unwrap() error { return e.Err }

// ContextUnavailableError represents a page or frame torn down mid-query.
// Remaining document contexts are still scanned.
type ContextUnavailableError struct {
	Context string
	Err     error
}

func (e *ContextUnavailableError) Error() string {
	return fmt.Sprintf("document context %s unavailable: %v", e.Context, e.Err)
}

func (e *ContextUnavailableError) Unwrap() error { return e.Err }

// NavigationError represents a failed page load
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// InvalidURLError represents an invalid URL error
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %s: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

package sources

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid or missing required setting.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrExternalFetch marks a failed or invalid external retrieval.
	ErrExternalFetch = errors.New("external data source unavailable")
)

// Source identifies one of the two external datasets.
type Source string

const (
	SourceCountries Source = "countries"
	SourceRates     Source = "rates"
)

// ConfigurationError is a setting that cannot be used as given.
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("configuration %s %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("configuration %s %s", e.Field, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ExternalFetchFailed reports the endpoint that made a fetch round fail.
type ExternalFetchFailed struct {
	Source     Source
	Endpoint   string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *ExternalFetchFailed) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s from %s failed with status %d: %v", e.Source, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s from %s failed: %v", e.Source, e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ExternalFetchFailed) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExternalFetchFailed) Is(target error) bool {
	return target == ErrExternalFetch
}

package refresh

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidData is returned when every fetched record was rejected.
	ErrNoValidData = errors.New("no valid country records")

	// ErrPersistence marks a refresh that was rolled back.
	ErrPersistence = errors.New("persistence failed")

	// ErrArtifactPublish marks a failed summary publish after commit.
	ErrArtifactPublish = errors.New("artifact publish failed")
)

// PersistenceFailure wraps the store error that aborted a refresh.
type PersistenceFailure struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("refresh %s: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistenceFailure) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistenceFailure) Is(target error) bool {
	return target == ErrPersistence
}

// ArtifactPublishFailure wraps renderer or artifact store errors.
type ArtifactPublishFailure struct {
	Err error
}

// Error implements the error interface
func (e *ArtifactPublishFailure) Error() string {
	return fmt.Sprintf("publish summary: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ArtifactPublishFailure) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ArtifactPublishFailure) Is(target error) bool {
	return target == ErrArtifactPublish
}

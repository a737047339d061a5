// Package common defines shared constants and errors used across client and
// server layers of StoreIt. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrUnauthenticated is returned when an operation runs without a
	// current-session user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Validation errors.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Upload stages reported by UploadError.
const (
	UploadStageIntent   = "intent"
	UploadStageStore    = "store"
	UploadStageDocument = "document"
)

// UploadError reports a failed upload. Orphaned is set when the binary object
// was stored but neither a document nor the compensating delete succeeded;
// such an error is not retryable and ObjectID names the leftover object.
type UploadError struct {
	Stage    string
	ObjectID string
	Orphaned bool
	Err      error
}

func (e *UploadError) Error() string {
	if e.Orphaned {
		return fmt.Sprintf("upload failed at %s stage, object %s orphaned: %v", e.Stage, e.ObjectID, e.Err)
	}
	return fmt.Sprintf("upload failed at %s stage: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// BackendError wraps an unexpected failure returned by the database or the
// object storage for the named operation.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend error: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

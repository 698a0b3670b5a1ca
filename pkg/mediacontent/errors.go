package mediacontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrInvalidFileSet indicates the uploaded blobs do not match the kind's
	// required multipart fields or counts
	ErrInvalidFileSet = errors.New("invalid file set")

	// ErrUnsupportedMediaType indicates a blob's declared media type is not
	// on the allow-list for its field
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrCategoryNotFound indicates no category matched the supplied token
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryMismatch indicates the category exists but belongs to a
	// different content kind than the record
	ErrCategoryMismatch = errors.New("category kind mismatch")

	// ErrCategoryInUse indicates a category still referenced by records
	ErrCategoryInUse = errors.New("category is referenced by existing records")

	// ErrUploadFailed indicates a remote blob upload failed
	ErrUploadFailed = errors.New("upload failed")

	// ErrPersistenceFailed indicates the record store rejected a write after
	// uploads had already succeeded
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrRecordNotFound indicates a record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrRemoteRefInUse indicates a blob remote reference already belongs to
	// another record (or appears twice within one record)
	ErrRemoteRefInUse = errors.New("remote reference already in use")

	// ErrInvalidAssetSet indicates a pre-built asset list violates the kind's
	// bounds
	ErrInvalidAssetSet = errors.New("invalid asset set")
)

// RecordError represents an error related to record operations
type RecordError struct {
	RecordID uuid.UUID
	Kind     ContentKind
	Op       string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record operation %s failed for %s %s: %v", e.Op, e.Kind, e.RecordID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// StoreError represents an error related to object-store operations
type StoreError struct {
	Key string
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

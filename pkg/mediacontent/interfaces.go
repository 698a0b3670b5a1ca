package mediacontent

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for the remote object store. It is treated
// as unreliable: every call may fail or be slow, and the store's own per-call
// timeout governs cancellation.
type BlobStore interface {
	// Upload writes a blob and returns its stable remote reference and a
	// retrievable URL.
	Upload(ctx context.Context, reader io.Reader, params UploadParams) (*StoredBlob, error)

	// Derive produces a new rendition from an already stored blob (e.g. a
	// poster frame for a video) without re-uploading bytes.
	Derive(ctx context.Context, sourceRef string, params DeriveParams) (*StoredBlob, error)

	// Delete removes a blob by remote reference.
	Delete(ctx context.Context, remoteRef string) error

	// URL returns the retrievable URL for an existing remote reference.
	URL(ctx context.Context, remoteRef string) (string, error)
}

// UploadParams carries the object key and transform directive for one upload.
type UploadParams struct {
	Key         string
	ContentType string
	// Transform is an opaque directive (e.g. a bounded-resize spec) recorded
	// with the object for the downstream media pipeline.
	Transform string
}

// DeriveParams describes a rendition derived from an existing blob.
type DeriveParams struct {
	Variant   string
	Transform string
}

// StoredBlob is the store's receipt for a written blob.
type StoredBlob struct {
	RemoteRef string
	URL       string
	Size      int64
}

// Repository defines the interface for record and category persistence.
type Repository interface {
	// Record operations
	CreateRecord(ctx context.Context, record *Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	UpdateRecord(ctx context.Context, record *Record) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	ListRecords(ctx context.Context, filters ListFilters) ([]*Record, error)
	CountRecordsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)

	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryByName(ctx context.Context, kind ContentKind, name string) (*Category, error)
	ListCategories(ctx context.Context, kind ContentKind) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// EventSink defines the interface for lifecycle event handling. Sink failures
// are never allowed to fail the triggering operation.
type EventSink interface {
	// RecordCreated is fired after a record is persisted
	RecordCreated(ctx context.Context, record *Record)

	// RecordDeleted is fired after a record is deleted
	RecordDeleted(ctx context.Context, recordID uuid.UUID, kind ContentKind)

	// AssetsCompensated is fired after orphaned blobs were cleaned up (or a
	// cleanup attempt was made) following a failed request
	AssetsCompensated(ctx context.Context, remoteRefs []string, cause error)
}

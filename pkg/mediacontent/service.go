package mediacontent

import (
	"context"

	"github.com/google/uuid"
)

// Service is the coordination layer for portfolio content: it reconciles
// multi-file binary uploads, remote object-store writes and local record
// persistence into one consistent unit per request, and cleans up remote
// blobs when a later step of the same request fails.
type Service interface {
	// CreateWithUpload uploads the request's blobs concurrently and persists
	// one record only after every required upload succeeded. On partial
	// upload failure every blob that did succeed is deleted best-effort and
	// no record is written.
	CreateWithUpload(ctx context.Context, req CreateUploadRequest) (*Record, error)

	// CreateFromAssets persists a record from pre-existing asset descriptors.
	// No object-store interaction takes place.
	CreateFromAssets(ctx context.Context, req CreateAssetsRequest) (*Record, error)

	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	ListRecords(ctx context.Context, filters ListFilters) ([]*Record, error)

	// UpdateRecord applies metadata changes and optionally replaces the asset
	// list. Assets dropped by a replacement get a best-effort remote cleanup
	// after the record is persisted; cleanup failures are non-fatal.
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (*Record, error)

	// DeleteRecord removes all attached remote blobs best-effort and then
	// deletes the local record. An individual blob deletion failure never
	// blocks the local delete.
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	// Category management
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	ListCategories(ctx context.Context, kind ContentKind) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

package mediacontent

import (
	"time"

	"github.com/google/uuid"
)

// CreateUploadRequest creates a record from freshly uploaded binaries.
type CreateUploadRequest struct {
	Kind          ContentKind
	Title         string
	CategoryToken CategoryToken
	Date          time.Time
	Description   string
	ExternalURL   string
	Blobs         []BlobUpload
}

// CreateAssetsRequest creates a record from pre-existing asset descriptors.
type CreateAssetsRequest struct {
	Kind          ContentKind
	Title         string
	CategoryToken CategoryToken
	Date          time.Time
	Description   string
	ExternalURL   string
	Assets        []MediaAsset
}

// UpdateRecordRequest applies partial metadata updates to a record. Nil
// pointers leave the field unchanged; a non-nil ReplaceAssets swaps the whole
// asset list.
type UpdateRecordRequest struct {
	ID            uuid.UUID
	Title         *string
	CategoryToken *CategoryToken
	Date          *time.Time
	Description   *string
	ExternalURL   *string
	IsActive      *bool
	ReplaceAssets []MediaAsset
}

// CreateCategoryRequest creates a category in one kind's namespace.
type CreateCategoryRequest struct {
	Kind ContentKind
	Name string
}

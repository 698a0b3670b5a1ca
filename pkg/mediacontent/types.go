package mediacontent

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ContentKind is the domain type for the three record families.
type ContentKind string

// Content kind constants (typed).
const (
	KindPhoto ContentKind = "photo"
	KindVideo ContentKind = "video"
	KindPress ContentKind = "press"
)

// IsValid reports whether k is a known content kind.
func (k ContentKind) IsValid() bool {
	switch k {
	case KindPhoto, KindVideo, KindPress:
		return true
	}
	return false
}

// MediaAsset is one stored binary attached to a record. Assets are owned
// exclusively by their parent record and are replaced, never edited.
type MediaAsset struct {
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text,omitempty"`
	RemoteRef string `json:"remote_ref"`
}

// Record is a content record of any kind. Kind-specific behavior (allowed
// upload fields, asset bounds, transforms) lives in the kind policy, not in
// the shape of the record itself.
type Record struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ContentKind  `json:"kind"`
	Title       string       `json:"title"`
	CategoryID  uuid.UUID    `json:"category_id"`
	Date        time.Time    `json:"date"`
	IsActive    bool         `json:"is_active"`
	Description string       `json:"description,omitempty"`
	ExternalURL string       `json:"external_url,omitempty"`
	Assets      []MediaAsset `json:"assets"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Category is a canonical category record scoped to one content kind.
type Category struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Kind      ContentKind `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CategoryTokenKind tags how a caller identified a category.
type CategoryTokenKind int

const (
	// TokenID means the token is a canonical category identifier.
	TokenID CategoryTokenKind = iota
	// TokenName means the token is a human-readable category name.
	TokenName
)

// CategoryToken is a caller-supplied category reference. Callers send either
// the canonical id or the display name; the tag is decided once at the
// boundary so the resolver never has to guess.
type CategoryToken struct {
	Kind CategoryTokenKind
	ID   uuid.UUID
	Name string
}

// ParseCategoryToken classifies a raw token as an id or a name.
func ParseCategoryToken(raw string) CategoryToken {
	if id, err := uuid.Parse(raw); err == nil {
		return CategoryToken{Kind: TokenID, ID: id}
	}
	return CategoryToken{Kind: TokenName, Name: raw}
}

// BlobUpload is one binary to be written to the object store. Field names the
// multipart field it arrived under and selects the per-field policy.
type BlobUpload struct {
	Field       string
	FileName    string
	ContentType string
	AltText     string
	Data        io.Reader
}

// ListFilters narrows and pages record listings.
type ListFilters struct {
	Kind       ContentKind
	CategoryID *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

package mediacontent

import "fmt"

// Multipart field names accepted by the upload paths.
const (
	FieldImage     = "image"
	FieldImages    = "images"
	FieldVideo     = "video"
	FieldThumbnail = "thumbnail"
)

// Transform directives per field. Opaque to this package; the object store
// records them for the downstream media pipeline.
const (
	transformBounded1920 = "limit:1920x1920"
	transformVideo1080   = "limit:1920x1080"
	transformThumb640    = "fill:640x360"
)

var imageMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var videoMediaTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// fieldPolicy is the per-field rule inside one kind's file-set policy.
type fieldPolicy struct {
	min, max   int
	mediaTypes map[string]bool
	transform  string
}

// kindPolicy is the full upload/asset policy for one content kind.
type kindPolicy struct {
	fields map[string]fieldPolicy
	// assetMin/assetMax bound the asset list for the no-upload creation path
	// and for asset replacement on update.
	assetMin, assetMax int
}

var kindPolicies = map[ContentKind]kindPolicy{
	KindPhoto: {
		fields: map[string]fieldPolicy{
			FieldImage: {min: 1, max: 1, mediaTypes: imageMediaTypes, transform: transformBounded1920},
		},
		assetMin: 1, assetMax: 5,
	},
	KindPress: {
		fields: map[string]fieldPolicy{
			FieldImages: {min: 1, max: 5, mediaTypes: imageMediaTypes, transform: transformBounded1920},
		},
		assetMin: 1, assetMax: 5,
	},
	KindVideo: {
		fields: map[string]fieldPolicy{
			FieldVideo:     {min: 1, max: 1, mediaTypes: videoMediaTypes, transform: transformVideo1080},
			FieldThumbnail: {min: 0, max: 1, mediaTypes: imageMediaTypes, transform: transformThumb640},
		},
		assetMin: 1, assetMax: 2,
	},
}

func policyFor(kind ContentKind) (kindPolicy, error) {
	p, ok := kindPolicies[kind]
	if !ok {
		return kindPolicy{}, fmt.Errorf("unknown content kind %q", kind)
	}
	return p, nil
}

// validateFileSet checks blob counts per field and each blob's declared media
// type against the kind's policy. It runs before any network call: a request
// that is invalid on its face starts no partial work.
func (p kindPolicy) validateFileSet(blobs []BlobUpload) error {
	counts := make(map[string]int, len(p.fields))
	for _, b := range blobs {
		fp, ok := p.fields[b.Field]
		if !ok {
			return fmt.Errorf("%w: unexpected field %q", ErrInvalidFileSet, b.Field)
		}
		counts[b.Field]++
		if counts[b.Field] > fp.max {
			return fmt.Errorf("%w: field %q accepts at most %d file(s)", ErrInvalidFileSet, b.Field, fp.max)
		}
		if !fp.mediaTypes[b.ContentType] {
			return fmt.Errorf("%w: %s for field %q", ErrUnsupportedMediaType, b.ContentType, b.Field)
		}
	}
	for field, fp := range p.fields {
		if counts[field] < fp.min {
			return fmt.Errorf("%w: field %q requires at least %d file(s)", ErrInvalidFileSet, field, fp.min)
		}
	}
	return nil
}

// validateAssetSet bounds a pre-built asset list for the no-upload paths.
// Remote references must be unique within the list: a duplicate would alias
// one blob from two asset slots and get deleted twice on record removal.
func (p kindPolicy) validateAssetSet(assets []MediaAsset) error {
	if len(assets) < p.assetMin || len(assets) > p.assetMax {
		return fmt.Errorf("%w: expected %d to %d asset(s), got %d",
			ErrInvalidAssetSet, p.assetMin, p.assetMax, len(assets))
	}
	seen := make(map[string]bool, len(assets))
	for i, a := range assets {
		if a.RemoteRef == "" {
			return fmt.Errorf("%w: asset %d has no remote reference", ErrInvalidAssetSet, i)
		}
		if a.SourceURL == "" {
			return fmt.Errorf("%w: asset %d has no source URL", ErrInvalidAssetSet, i)
		}
		if seen[a.RemoteRef] {
			return fmt.Errorf("%w: duplicate remote reference %q", ErrInvalidAssetSet, a.RemoteRef)
		}
		seen[a.RemoteRef] = true
	}
	return nil
}

// transformFor returns the transform directive for a field, empty when the
// field is unknown to the policy.
func (p kindPolicy) transformFor(field string) string {
	return p.fields[field].transform
}

package mediacontent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blob(field, contentType string) BlobUpload {
	return BlobUpload{Field: field, FileName: "f.bin", ContentType: contentType}
}

func TestValidateFileSet(t *testing.T) {
	tests := []struct {
		name    string
		kind    ContentKind
		blobs   []BlobUpload
		wantErr error
	}{
		{
			name:  "photo single image ok",
			kind:  KindPhoto,
			blobs: []BlobUpload{blob(FieldImage, "image/jpeg")},
		},
		{
			name:    "photo missing image",
			kind:    KindPhoto,
			blobs:   nil,
			wantErr: ErrInvalidFileSet,
		},
		{
			name:    "photo two images",
			kind:    KindPhoto,
			blobs:   []BlobUpload{blob(FieldImage, "image/jpeg"), blob(FieldImage, "image/png")},
			wantErr: ErrInvalidFileSet,
		},
		{
			name:    "photo unexpected field",
			kind:    KindPhoto,
			blobs:   []BlobUpload{blob(FieldVideo, "video/mp4")},
			wantErr: ErrInvalidFileSet,
		},
		{
			name:    "photo wrong media type",
			kind:    KindPhoto,
			blobs:   []BlobUpload{blob(FieldImage, "application/pdf")},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name: "press five images ok",
			kind: KindPress,
			blobs: []BlobUpload{
				blob(FieldImages, "image/jpeg"), blob(FieldImages, "image/png"),
				blob(FieldImages, "image/webp"), blob(FieldImages, "image/gif"),
				blob(FieldImages, "image/jpeg"),
			},
		},
		{
			name: "press six images",
			kind: KindPress,
			blobs: []BlobUpload{
				blob(FieldImages, "image/jpeg"), blob(FieldImages, "image/jpeg"),
				blob(FieldImages, "image/jpeg"), blob(FieldImages, "image/jpeg"),
				blob(FieldImages, "image/jpeg"), blob(FieldImages, "image/jpeg"),
			},
			wantErr: ErrInvalidFileSet,
		},
		{
			name:  "video without thumbnail ok",
			kind:  KindVideo,
			blobs: []BlobUpload{blob(FieldVideo, "video/mp4")},
		},
		{
			name:  "video with thumbnail ok",
			kind:  KindVideo,
			blobs: []BlobUpload{blob(FieldVideo, "video/webm"), blob(FieldThumbnail, "image/jpeg")},
		},
		{
			name:    "video missing video blob",
			kind:    KindVideo,
			blobs:   []BlobUpload{blob(FieldThumbnail, "image/jpeg")},
			wantErr: ErrInvalidFileSet,
		},
		{
			name:    "video blob with image type",
			kind:    KindVideo,
			blobs:   []BlobUpload{blob(FieldVideo, "image/jpeg")},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "thumbnail with video type",
			kind:    KindVideo,
			blobs:   []BlobUpload{blob(FieldVideo, "video/mp4"), blob(FieldThumbnail, "video/mp4")},
			wantErr: ErrUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := policyFor(tt.kind)
			require.NoError(t, err)

			err = policy.validateFileSet(tt.blobs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAssetSet(t *testing.T) {
	asset := func(ref string) MediaAsset {
		return MediaAsset{SourceURL: "https://cdn.example.com/" + ref, RemoteRef: ref}
	}

	photoPolicy, err := policyFor(KindPhoto)
	require.NoError(t, err)
	videoPolicy, err := policyFor(KindVideo)
	require.NoError(t, err)

	assert.NoError(t, photoPolicy.validateAssetSet([]MediaAsset{asset("a")}))
	assert.NoError(t, photoPolicy.validateAssetSet([]MediaAsset{
		asset("a"), asset("b"), asset("c"), asset("d"), asset("e"),
	}))
	assert.ErrorIs(t, photoPolicy.validateAssetSet(nil), ErrInvalidAssetSet)
	assert.ErrorIs(t, photoPolicy.validateAssetSet([]MediaAsset{
		asset("a"), asset("b"), asset("c"), asset("d"), asset("e"), asset("f"),
	}), ErrInvalidAssetSet)

	assert.ErrorIs(t, videoPolicy.validateAssetSet([]MediaAsset{
		asset("a"), asset("b"), asset("c"),
	}), ErrInvalidAssetSet)

	missingRef := MediaAsset{SourceURL: "https://cdn.example.com/x"}
	assert.ErrorIs(t, photoPolicy.validateAssetSet([]MediaAsset{missingRef}), ErrInvalidAssetSet)

	missingURL := MediaAsset{RemoteRef: "x"}
	assert.ErrorIs(t, photoPolicy.validateAssetSet([]MediaAsset{missingURL}), ErrInvalidAssetSet)

	// One blob aliased from two asset slots would be deleted twice later.
	assert.ErrorIs(t, photoPolicy.validateAssetSet([]MediaAsset{
		asset("a"), asset("a"),
	}), ErrInvalidAssetSet)
}

func TestPolicyForUnknownKind(t *testing.T) {
	_, err := policyFor(ContentKind("audio"))
	assert.Error(t, err)
}

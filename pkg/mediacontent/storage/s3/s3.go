package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PresignDuration int    // Duration in seconds for presigned URLs (default: 3600)

	// PublicBaseURL, when set, is used to build retrieval URLs instead of
	// presigning (e.g. a CDN in front of the bucket).
	PublicBaseURL string

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool
}

// Backend is an S3-compatible implementation of the mediacontent.BlobStore interface
type Backend struct {
	client          *s3.Client
	bucket          string
	presignClient   *s3.PresignClient
	presignDuration time.Duration
	config          Config
}

// New creates a new S3-compatible blob store
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}
	if config.PresignDuration == 0 {
		config.PresignDuration = 3600
	}

	var awsCfg aws.Config
	var err error
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	backend := &Backend{
		client:          client,
		bucket:          config.Bucket,
		presignClient:   s3.NewPresignClient(client),
		presignDuration: time.Duration(config.PresignDuration) * time.Second,
		config:          config,
	}

	if config.CreateBucketIfNotExist {
		if err := backend.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return backend, nil
}

// createBucketIfNotExists creates the bucket if it doesn't exist
func (b *Backend) createBucketIfNotExists(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})
	if err == nil {
		return nil
	}

	// Handle multiple error shapes for MinIO compatibility
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "BadRequest") &&
		!strings.Contains(err.Error(), "NoSuchBucket") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(b.bucket),
	}
	if b.config.Region != "us-east-1" {
		createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.config.Region),
		}
	}

	_, err = b.client.CreateBucket(ctx, createInput)
	if err != nil {
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload writes a blob to S3. The transform directive travels as object
// metadata for the downstream media pipeline.
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params mediacontent.UploadParams) (*mediacontent.StoredBlob, error) {
	uploader := manager.NewUploader(b.client)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(params.Key),
		Body:        reader,
		ContentType: aws.String(params.ContentType),
	}
	if params.Transform != "" {
		input.Metadata = map[string]string{"transform": params.Transform}
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := b.URL(ctx, params.Key)
	if err != nil {
		return nil, err
	}

	size := int64(0)
	if head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(params.Key),
	}); err == nil && head.ContentLength != nil {
		size = *head.ContentLength
	}

	return &mediacontent.StoredBlob{
		RemoteRef: params.Key,
		URL:       url,
		Size:      size,
	}, nil
}

// Derive copies an existing object under a renditions prefix. The transform
// directive is recorded on the copy; actual pixel work happens downstream.
func (b *Backend) Derive(ctx context.Context, sourceRef string, params mediacontent.DeriveParams) (*mediacontent.StoredBlob, error) {
	key := fmt.Sprintf("renditions/%s/%s", params.Variant, sourceRef)

	input := &s3.CopyObjectInput{
		Bucket:            aws.String(b.bucket),
		CopySource:        aws.String(b.bucket + "/" + sourceRef),
		Key:               aws.String(key),
		MetadataDirective: types.MetadataDirectiveReplace,
	}
	if params.Transform != "" {
		input.Metadata = map[string]string{"transform": params.Transform}
	}

	if _, err := b.client.CopyObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to derive rendition: %w", err)
	}

	url, err := b.URL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &mediacontent.StoredBlob{RemoteRef: key, URL: url}, nil
}

// Delete deletes a blob from S3
func (b *Backend) Delete(ctx context.Context, remoteRef string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(remoteRef),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// URL returns a retrievable URL for a blob: public-base when configured,
// presigned GET otherwise.
func (b *Backend) URL(ctx context.Context, remoteRef string) (string, error) {
	if b.config.PublicBaseURL != "" {
		return strings.TrimSuffix(b.config.PublicBaseURL, "/") + "/" + remoteRef, nil
	}

	result, err := b.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(remoteRef),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = b.presignDuration
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return result.URL, nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
	repomemory "github.com/portfoliokit/media-content/pkg/mediacontent/repo/memory"
	repopg "github.com/portfoliokit/media-content/pkg/mediacontent/repo/postgres"
	memorystorage "github.com/portfoliokit/media-content/pkg/mediacontent/storage/memory"
	s3storage "github.com/portfoliokit/media-content/pkg/mediacontent/storage/s3"
)

// Config is the full server configuration, read from the environment.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	S3     S3Config

	// DATABASE_URL selects the repository: empty or "memory" for in-memory,
	// postgres:// / postgresql:// for Postgres.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	// STORAGE_DRIVER selects the blob store: "memory" or "s3".
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"memory"`

	// JWT_SECRET enables the admin gate; empty leaves mutating routes open
	// (development only).
	JWTSecret string `env:"JWT_SECRET" env-default:""`
}

type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"console"`
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:"portfolio-media"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	PublicBaseURL   string `env:"MEDIA_PUBLIC_BASE_URL" env-default:""`
	PresignDuration int    `env:"AWS_S3_PRESIGN_DURATION" env-default:"3600"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "memory":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("AWS_S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}

	if c.DatabaseURL != "" && c.DatabaseURL != "memory" &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("unsupported DATABASE_URL format (use 'memory' or 'postgresql://...')")
	}
	return nil
}

// BuildService assembles the content service from the configuration.
func (c *Config) BuildService(ctx context.Context, log *slog.Logger) (mediacontent.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	return mediacontent.New(
		mediacontent.WithRepository(repo),
		mediacontent.WithBlobStore(store),
		mediacontent.WithEventSink(mediacontent.NewSlogEventSink(log)),
		mediacontent.WithLogger(log),
	)
}

func (c *Config) buildRepository(ctx context.Context) (mediacontent.Repository, error) {
	if c.DatabaseURL == "" || c.DatabaseURL == "memory" {
		return repomemory.New(), nil
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return repopg.NewWithPool(pool), nil
}

func (c *Config) buildBlobStore() (mediacontent.BlobStore, error) {
	switch c.StorageDriver {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        c.S3.PresignDuration,
			PublicBaseURL:          c.S3.PublicBaseURL,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}
}

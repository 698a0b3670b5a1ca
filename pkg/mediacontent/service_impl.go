package mediacontent

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	events     EventSink
	log        *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the record/category repository
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the remote object store client
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the lifecycle event sink
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithLogger sets the structured logger used by the coordinators
func WithLogger(log *slog.Logger) Option {
	return func(s *service) {
		s.log = log
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	return s, nil
}

// Upload coordination

func (s *service) CreateWithUpload(ctx context.Context, req CreateUploadRequest) (*Record, error) {
	log := s.requestLogger(ctx).With("kind", req.Kind, "title", req.Title)

	policy, err := policyFor(req.Kind)
	if err != nil {
		return nil, err
	}
	if err := policy.validateFileSet(req.Blobs); err != nil {
		return nil, err
	}

	// Cheap failure precedes expensive one: resolve the category before any
	// bytes move.
	category, err := s.resolveCategory(ctx, req.CategoryToken, req.Kind)
	if err != nil {
		return nil, err
	}

	recordID := uuid.New()
	tasks := make([]compensable[*StoredBlob], len(req.Blobs))
	for i, blob := range req.Blobs {
		params := UploadParams{
			Key:         s.objectKey(req.Kind, recordID, i, blob.FileName),
			ContentType: blob.ContentType,
			Transform:   policy.transformFor(blob.Field),
		}
		data := blob.Data
		tasks[i] = compensable[*StoredBlob]{
			do: func(ctx context.Context) (*StoredBlob, error) {
				return s.blobStore.Upload(ctx, data, params)
			},
			undo: func(ctx context.Context, b *StoredBlob) error {
				return s.blobStore.Delete(ctx, b.RemoteRef)
			},
		}
	}

	log.Info("uploading blobs", "record_id", recordID, "count", len(tasks))
	stored, undone, err := runAllOrUndo(ctx, log, tasks)
	if err != nil {
		refs := make([]string, len(undone))
		for i, b := range undone {
			refs[i] = b.RemoteRef
		}
		log.Error("blob upload failed, compensated completed uploads",
			"record_id", recordID, "compensated", refs, "error", err)
		s.events.AssetsCompensated(ctx, refs, err)
		return nil, &RecordError{
			RecordID: recordID,
			Kind:     req.Kind,
			Op:       "upload",
			Err:      fmt.Errorf("%w: %w", ErrUploadFailed, err),
		}
	}

	// Assemble in input order, never completion order.
	assets := make([]MediaAsset, len(stored))
	for i, b := range stored {
		assets[i] = MediaAsset{
			SourceURL: b.URL,
			AltText:   req.Blobs[i].AltText,
			RemoteRef: b.RemoteRef,
		}
		if assets[i].AltText == "" {
			assets[i].AltText = positionalAlt(req.Title, i, len(stored))
		}
	}

	// A video without an explicit thumbnail gets one derived from the
	// uploaded video rendition.
	if req.Kind == KindVideo && !hasField(req.Blobs, FieldThumbnail) {
		thumb, err := s.blobStore.Derive(ctx, stored[0].RemoteRef, DeriveParams{
			Variant:   "thumbnail",
			Transform: transformThumb640,
		})
		if err != nil {
			s.cleanupBlobs(ctx, log, remoteRefs(assets), err)
			return nil, &RecordError{
				RecordID: recordID,
				Kind:     req.Kind,
				Op:       "derive_thumbnail",
				Err:      fmt.Errorf("%w: %w", ErrUploadFailed, err),
			}
		}
		assets = append(assets, MediaAsset{
			SourceURL: thumb.URL,
			AltText:   req.Title + " thumbnail",
			RemoteRef: thumb.RemoteRef,
		})
	}

	now := time.Now().UTC()
	record := &Record{
		ID:          recordID,
		Kind:        req.Kind,
		Title:       req.Title,
		CategoryID:  category.ID,
		Date:        recordDate(req.Date, now),
		IsActive:    true,
		Description: req.Description,
		ExternalURL: req.ExternalURL,
		Assets:      assets,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateRecord(ctx, record); err != nil {
		// Every uploaded blob is an orphan now; clean up before surfacing
		// the persistence error.
		s.cleanupBlobs(ctx, log, remoteRefs(assets), err)
		return nil, &RecordError{
			RecordID: recordID,
			Kind:     req.Kind,
			Op:       "persist",
			Err:      fmt.Errorf("%w: %w", ErrPersistenceFailed, err),
		}
	}

	log.Info("record created", "record_id", recordID, "assets", len(assets))
	s.events.RecordCreated(ctx, record)
	return record, nil
}

func (s *service) CreateFromAssets(ctx context.Context, req CreateAssetsRequest) (*Record, error) {
	policy, err := policyFor(req.Kind)
	if err != nil {
		return nil, err
	}
	if err := policy.validateAssetSet(req.Assets); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.CategoryToken, req.Kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &Record{
		ID:          uuid.New(),
		Kind:        req.Kind,
		Title:       req.Title,
		CategoryID:  category.ID,
		Date:        recordDate(req.Date, now),
		IsActive:    true,
		Description: req.Description,
		ExternalURL: req.ExternalURL,
		Assets:      append([]MediaAsset(nil), req.Assets...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateRecord(ctx, record); err != nil {
		return nil, &RecordError{
			RecordID: record.ID,
			Kind:     req.Kind,
			Op:       "persist",
			Err:      fmt.Errorf("%w: %w", ErrPersistenceFailed, err),
		}
	}

	s.events.RecordCreated(ctx, record)
	return record, nil
}

func (s *service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repository.GetRecord(ctx, id)
}

func (s *service) ListRecords(ctx context.Context, filters ListFilters) ([]*Record, error) {
	return s.repository.ListRecords(ctx, filters)
}

func (s *service) UpdateRecord(ctx context.Context, req UpdateRecordRequest) (*Record, error) {
	log := s.requestLogger(ctx)

	record, err := s.repository.GetRecord(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		record.Title = *req.Title
	}
	if req.Date != nil {
		record.Date = *req.Date
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.ExternalURL != nil {
		record.ExternalURL = *req.ExternalURL
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}
	if req.CategoryToken != nil {
		category, err := s.resolveCategory(ctx, *req.CategoryToken, record.Kind)
		if err != nil {
			return nil, err
		}
		record.CategoryID = category.ID
	}

	var removed []string
	if req.ReplaceAssets != nil {
		policy, err := policyFor(record.Kind)
		if err != nil {
			return nil, err
		}
		if err := policy.validateAssetSet(req.ReplaceAssets); err != nil {
			return nil, err
		}
		removed = droppedRefs(record.Assets, req.ReplaceAssets)
		record.Assets = append([]MediaAsset(nil), req.ReplaceAssets...)
	}

	record.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateRecord(ctx, record); err != nil {
		return nil, &RecordError{
			RecordID: record.ID,
			Kind:     record.Kind,
			Op:       "update",
			Err:      fmt.Errorf("%w: %w", ErrPersistenceFailed, err),
		}
	}

	// The record is the source of truth; removed blobs are cleaned up after
	// the persisted state no longer references them.
	if len(removed) > 0 {
		s.cleanupBlobs(ctx, log, removed, nil)
	}

	return record, nil
}

// Deletion coordination

func (s *service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	log := s.requestLogger(ctx)

	record, err := s.repository.GetRecord(ctx, id)
	if err != nil {
		return err
	}

	// Remote deletions are best-effort: a stray blob is a recoverable leak,
	// a record that can never be deleted because a third-party store is down
	// is not.
	s.cleanupBlobs(ctx, log, remoteRefs(record.Assets), nil)

	if err := s.repository.DeleteRecord(ctx, id); err != nil {
		return &RecordError{
			RecordID: id,
			Kind:     record.Kind,
			Op:       "delete",
			Err:      err,
		}
	}

	log.Info("record deleted", "record_id", id, "kind", record.Kind)
	s.events.RecordDeleted(ctx, id, record.Kind)
	return nil
}

// Category management

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("unknown content kind %q", req.Kind)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	now := time.Now().UTC()
	category := &Category{
		ID:        uuid.New(),
		Name:      name,
		Kind:      req.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context, kind ContentKind) ([]*Category, error) {
	return s.repository.ListCategories(ctx, kind)
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repository.GetCategoryByID(ctx, id); err != nil {
		return err
	}
	count, err := s.repository.CountRecordsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d record(s)", ErrCategoryInUse, count)
	}
	return s.repository.DeleteCategory(ctx, id)
}

// Helper methods

// cleanupBlobs deletes remote blobs concurrently, best-effort. Failures are
// logged, never escalated: when cause is non-nil the originating error is
// what the caller sees.
func (s *service) cleanupBlobs(ctx context.Context, log *slog.Logger, refs []string, cause error) {
	if len(refs) == 0 {
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(refs))
	for _, ref := range refs {
		go func(ref string) {
			defer wg.Done()
			if err := s.blobStore.Delete(ctx, ref); err != nil {
				log.Warn("blob cleanup failed", "remote_ref", ref, "error", err)
			}
		}(ref)
	}
	wg.Wait()
	s.events.AssetsCompensated(ctx, refs, cause)
}

func (s *service) objectKey(kind ContentKind, recordID uuid.UUID, index int, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, " ", "_"))
	if base == "." || base == "/" || base == "" {
		return fmt.Sprintf("%s/%s/%d", kind, recordID, index+1)
	}
	return fmt.Sprintf("%s/%s/%d-%s", kind, recordID, index+1, base)
}

func (s *service) requestLogger(ctx context.Context) *slog.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return s.log.With("request_id", id)
	}
	return s.log
}

func positionalAlt(title string, index, total int) string {
	if total == 1 {
		return title
	}
	return fmt.Sprintf("%s %d", title, index+1)
}

func recordDate(requested, fallback time.Time) time.Time {
	if requested.IsZero() {
		return fallback
	}
	return requested
}

func hasField(blobs []BlobUpload, field string) bool {
	for _, b := range blobs {
		if b.Field == field {
			return true
		}
	}
	return false
}

func remoteRefs(assets []MediaAsset) []string {
	refs := make([]string, len(assets))
	for i, a := range assets {
		refs[i] = a.RemoteRef
	}
	return refs
}

// droppedRefs returns the remote refs present in old but absent from new.
func droppedRefs(old, new []MediaAsset) []string {
	kept := make(map[string]bool, len(new))
	for _, a := range new {
		kept[a.RemoteRef] = true
	}
	var dropped []string
	for _, a := range old {
		if !kept[a.RemoteRef] {
			dropped = append(dropped, a.RemoteRef)
		}
	}
	return dropped
}

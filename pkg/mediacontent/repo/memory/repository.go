package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

// Repository implements mediacontent.Repository using in-memory storage
type Repository struct {
	mu         sync.RWMutex
	records    map[uuid.UUID]*mediacontent.Record
	categories map[uuid.UUID]*mediacontent.Category
	refs       map[string]uuid.UUID // remote_ref -> record_id, uniqueness guard
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records:    make(map[uuid.UUID]*mediacontent.Record),
		categories: make(map[uuid.UUID]*mediacontent.Category),
		refs:       make(map[string]uuid.UUID),
	}
}

// Record operations

func (r *Repository) CreateRecord(ctx context.Context, record *mediacontent.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("record %s already exists", record.ID)
	}
	if _, exists := r.categories[record.CategoryID]; !exists {
		return fmt.Errorf("category %s does not exist", record.CategoryID)
	}
	if err := r.checkRefs(record); err != nil {
		return err
	}

	recordCopy := copyRecord(record)
	r.records[record.ID] = recordCopy
	for _, a := range record.Assets {
		r.refs[a.RemoteRef] = record.ID
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, id uuid.UUID) (*mediacontent.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, mediacontent.ErrRecordNotFound
	}
	return copyRecord(record), nil
}

func (r *Repository) UpdateRecord(ctx context.Context, record *mediacontent.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.records[record.ID]
	if !exists {
		return mediacontent.ErrRecordNotFound
	}
	if err := r.checkRefs(record); err != nil {
		return err
	}

	for _, a := range existing.Assets {
		delete(r.refs, a.RemoteRef)
	}
	r.records[record.ID] = copyRecord(record)
	for _, a := range record.Assets {
		r.refs[a.RemoteRef] = record.ID
	}
	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[id]
	if !exists {
		return mediacontent.ErrRecordNotFound
	}
	for _, a := range record.Assets {
		delete(r.refs, a.RemoteRef)
	}
	delete(r.records, id)
	return nil
}

func (r *Repository) ListRecords(ctx context.Context, filters mediacontent.ListFilters) ([]*mediacontent.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*mediacontent.Record
	for _, record := range r.records {
		if filters.Kind != "" && record.Kind != filters.Kind {
			continue
		}
		if filters.CategoryID != nil && record.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.ActiveOnly && !record.IsActive {
			continue
		}
		result = append(result, copyRecord(record))
	}

	// Sort by date descending, creation time as tiebreaker
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(result) {
			return []*mediacontent.Record{}, nil
		}
		result = result[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(result) {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (r *Repository) CountRecordsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, record := range r.records {
		if record.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *mediacontent.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Kind == category.Kind && strings.EqualFold(existing.Name, category.Name) {
			return fmt.Errorf("category %q already exists for kind %s", category.Name, category.Kind)
		}
	}

	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy
	return nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*mediacontent.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, mediacontent.ErrCategoryNotFound
	}
	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) GetCategoryByName(ctx context.Context, kind mediacontent.ContentKind, name string) (*mediacontent.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.categories {
		if category.Kind == kind && strings.EqualFold(category.Name, name) {
			categoryCopy := *category
			return &categoryCopy, nil
		}
	}
	return nil, mediacontent.ErrCategoryNotFound
}

func (r *Repository) ListCategories(ctx context.Context, kind mediacontent.ContentKind) ([]*mediacontent.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*mediacontent.Category
	for _, category := range r.categories {
		if kind != "" && category.Kind != kind {
			continue
		}
		categoryCopy := *category
		result = append(result, &categoryCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return mediacontent.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

// checkRefs enforces remote-ref uniqueness: no ref may be owned by another
// record, and no ref may appear twice within the record itself. Caller holds
// the write lock.
func (r *Repository) checkRefs(record *mediacontent.Record) error {
	seen := make(map[string]bool, len(record.Assets))
	for _, a := range record.Assets {
		if seen[a.RemoteRef] {
			return fmt.Errorf("%w: %s appears twice in record %s",
				mediacontent.ErrRemoteRefInUse, a.RemoteRef, record.ID)
		}
		seen[a.RemoteRef] = true
		if owner, taken := r.refs[a.RemoteRef]; taken && owner != record.ID {
			return fmt.Errorf("%w: %s owned by record %s",
				mediacontent.ErrRemoteRefInUse, a.RemoteRef, owner)
		}
	}
	return nil
}

// copyRecord clones a record including its asset slice so callers cannot
// mutate stored state.
func copyRecord(record *mediacontent.Record) *mediacontent.Record {
	recordCopy := *record
	recordCopy.Assets = append([]mediacontent.MediaAsset(nil), record.Assets...)
	return &recordCopy
}

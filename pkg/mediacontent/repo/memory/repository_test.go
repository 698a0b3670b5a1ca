package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

func newCategory(kind mediacontent.ContentKind, name string) *mediacontent.Category {
	now := time.Now().UTC()
	return &mediacontent.Category{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newRecord(kind mediacontent.ContentKind, categoryID uuid.UUID, title string, date time.Time) *mediacontent.Record {
	now := time.Now().UTC()
	return &mediacontent.Record{
		ID:         uuid.New(),
		Kind:       kind,
		Title:      title,
		CategoryID: categoryID,
		Date:       date,
		IsActive:   true,
		Assets: []mediacontent.MediaAsset{{
			SourceURL: "https://cdn.example.com/" + title + ".jpg",
			RemoteRef: string(kind) + "/" + uuid.NewString(),
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := New()

	category := newCategory(mediacontent.KindPhoto, "Rallies")
	require.NoError(t, repo.CreateCategory(ctx, category))

	record := newRecord(mediacontent.KindPhoto, category.ID, "rally", time.Now().UTC())
	require.NoError(t, repo.CreateRecord(ctx, record))

	t.Run("duplicate id rejected", func(t *testing.T) {
		assert.Error(t, repo.CreateRecord(ctx, record))
	})

	t.Run("missing category rejected", func(t *testing.T) {
		orphan := newRecord(mediacontent.KindPhoto, uuid.New(), "orphan", time.Now().UTC())
		assert.Error(t, repo.CreateRecord(ctx, orphan))
	})

	t.Run("duplicate remote ref rejected", func(t *testing.T) {
		dup := newRecord(mediacontent.KindPhoto, category.ID, "dup", time.Now().UTC())
		dup.Assets = append([]mediacontent.MediaAsset(nil), record.Assets...)
		assert.ErrorIs(t, repo.CreateRecord(ctx, dup), mediacontent.ErrRemoteRefInUse)
	})

	t.Run("duplicate ref within one record rejected", func(t *testing.T) {
		dup := newRecord(mediacontent.KindPhoto, category.ID, "self-dup", time.Now().UTC())
		dup.Assets = append(dup.Assets, dup.Assets[0])
		assert.ErrorIs(t, repo.CreateRecord(ctx, dup), mediacontent.ErrRemoteRefInUse)

		// Same guard on update.
		stored, err := repo.GetRecord(ctx, record.ID)
		require.NoError(t, err)
		stored.Assets = append(stored.Assets, stored.Assets[0])
		assert.ErrorIs(t, repo.UpdateRecord(ctx, stored), mediacontent.ErrRemoteRefInUse)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := repo.GetRecord(ctx, record.ID)
		require.NoError(t, err)
		got.Title = "mutated"
		got.Assets[0].AltText = "mutated"

		again, err := repo.GetRecord(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "rally", again.Title)
		assert.Empty(t, again.Assets[0].AltText)
	})

	t.Run("update releases replaced refs", func(t *testing.T) {
		oldRef := record.Assets[0].RemoteRef
		updated := *record
		updated.Assets = []mediacontent.MediaAsset{{
			SourceURL: "https://cdn.example.com/replacement.jpg",
			RemoteRef: "photo/" + uuid.NewString(),
		}}
		require.NoError(t, repo.UpdateRecord(ctx, &updated))

		// The old ref is free again.
		reuse := newRecord(mediacontent.KindPhoto, category.ID, "reuse", time.Now().UTC())
		reuse.Assets[0].RemoteRef = oldRef
		assert.NoError(t, repo.CreateRecord(ctx, reuse))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteRecord(ctx, record.ID))
		_, err := repo.GetRecord(ctx, record.ID)
		assert.ErrorIs(t, err, mediacontent.ErrRecordNotFound)
		assert.ErrorIs(t, repo.DeleteRecord(ctx, record.ID), mediacontent.ErrRecordNotFound)
	})
}

func TestListRecordsFiltering(t *testing.T) {
	ctx := context.Background()
	repo := New()

	photoCat := newCategory(mediacontent.KindPhoto, "Rallies")
	pressCat := newCategory(mediacontent.KindPress, "Interviews")
	require.NoError(t, repo.CreateCategory(ctx, photoCat))
	require.NoError(t, repo.CreateCategory(ctx, pressCat))

	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		record := newRecord(mediacontent.KindPhoto, photoCat.ID, fmt.Sprintf("photo-%d", i), base.AddDate(0, 0, i))
		require.NoError(t, repo.CreateRecord(ctx, record))
	}
	inactive := newRecord(mediacontent.KindPhoto, photoCat.ID, "inactive", base.AddDate(0, 0, 10))
	inactive.IsActive = false
	require.NoError(t, repo.CreateRecord(ctx, inactive))
	press := newRecord(mediacontent.KindPress, pressCat.ID, "press", base)
	require.NoError(t, repo.CreateRecord(ctx, press))

	t.Run("kind filter with date order", func(t *testing.T) {
		records, err := repo.ListRecords(ctx, mediacontent.ListFilters{Kind: mediacontent.KindPhoto})
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, "inactive", records[0].Title, "newest date first")
		assert.Equal(t, "photo-3", records[1].Title)
	})

	t.Run("active only", func(t *testing.T) {
		records, err := repo.ListRecords(ctx, mediacontent.ListFilters{
			Kind:       mediacontent.KindPhoto,
			ActiveOnly: true,
		})
		require.NoError(t, err)
		assert.Len(t, records, 4)
	})

	t.Run("category filter", func(t *testing.T) {
		records, err := repo.ListRecords(ctx, mediacontent.ListFilters{CategoryID: &pressCat.ID})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "press", records[0].Title)
	})

	t.Run("paging", func(t *testing.T) {
		records, err := repo.ListRecords(ctx, mediacontent.ListFilters{
			Kind:   mediacontent.KindPhoto,
			Limit:  2,
			Offset: 1,
		})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "photo-3", records[0].Title)

		records, err = repo.ListRecords(ctx, mediacontent.ListFilters{
			Kind:   mediacontent.KindPhoto,
			Offset: 50,
		})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestCategoryOperations(t *testing.T) {
	ctx := context.Background()
	repo := New()

	category := newCategory(mediacontent.KindPhoto, "Rallies")
	require.NoError(t, repo.CreateCategory(ctx, category))

	t.Run("name unique per kind case-insensitive", func(t *testing.T) {
		dup := newCategory(mediacontent.KindPhoto, "RALLIES")
		assert.Error(t, repo.CreateCategory(ctx, dup))

		other := newCategory(mediacontent.KindPress, "Rallies")
		assert.NoError(t, repo.CreateCategory(ctx, other))
	})

	t.Run("lookup by name ignores case", func(t *testing.T) {
		got, err := repo.GetCategoryByName(ctx, mediacontent.KindPhoto, "rallies")
		require.NoError(t, err)
		assert.Equal(t, category.ID, got.ID)

		_, err = repo.GetCategoryByName(ctx, mediacontent.KindVideo, "rallies")
		assert.ErrorIs(t, err, mediacontent.ErrCategoryNotFound)
	})

	t.Run("list sorted by name", func(t *testing.T) {
		require.NoError(t, repo.CreateCategory(ctx, newCategory(mediacontent.KindPhoto, "Abroad")))
		categories, err := repo.ListCategories(ctx, mediacontent.KindPhoto)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Abroad", categories[0].Name)
		assert.Equal(t, "Rallies", categories[1].Name)
	})

	t.Run("count records by category", func(t *testing.T) {
		count, err := repo.CountRecordsByCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		require.NoError(t, repo.CreateRecord(ctx, newRecord(mediacontent.KindPhoto, category.ID, "r1", time.Now().UTC())))
		count, err = repo.CountRecordsByCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("delete", func(t *testing.T) {
		spare := newCategory(mediacontent.KindVideo, "Spare")
		require.NoError(t, repo.CreateCategory(ctx, spare))
		require.NoError(t, repo.DeleteCategory(ctx, spare.ID))
		assert.ErrorIs(t, repo.DeleteCategory(ctx, spare.ID), mediacontent.ErrCategoryNotFound)
	})
}

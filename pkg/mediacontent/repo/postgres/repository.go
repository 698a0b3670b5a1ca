package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements mediacontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "category") {
				return fmt.Errorf("category already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "category") {
				return mediacontent.ErrCategoryNotFound
			}
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// checkRefOwnership enforces remote-ref uniqueness before a write. Assets
// live in a jsonb column, so there is no column constraint to lean on; a
// ref already owned by a different record, or repeated within the incoming
// record, is rejected here.
func (r *Repository) checkRefOwnership(ctx context.Context, record *mediacontent.Record) error {
	refs := make([]string, 0, len(record.Assets))
	seen := make(map[string]bool, len(record.Assets))
	for _, a := range record.Assets {
		if seen[a.RemoteRef] {
			return fmt.Errorf("%w: %s appears twice in record %s",
				mediacontent.ErrRemoteRefInUse, a.RemoteRef, record.ID)
		}
		seen[a.RemoteRef] = true
		refs = append(refs, a.RemoteRef)
	}
	if len(refs) == 0 {
		return nil
	}

	query := `
		SELECT r.id, elem->>'remote_ref'
		FROM media_record r, jsonb_array_elements(r.assets) elem
		WHERE elem->>'remote_ref' = ANY($2) AND r.id <> $1
		LIMIT 1`

	var owner uuid.UUID
	var ref string
	err := r.db.QueryRow(ctx, query, record.ID, refs).Scan(&owner, &ref)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s owned by record %s", mediacontent.ErrRemoteRefInUse, ref, owner)
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	default:
		return r.handlePostgresError("check remote refs", err)
	}
}

// Record operations

func (r *Repository) CreateRecord(ctx context.Context, record *mediacontent.Record) error {
	if err := r.checkRefOwnership(ctx, record); err != nil {
		return err
	}

	assets, err := json.Marshal(record.Assets)
	if err != nil {
		return fmt.Errorf("failed to encode assets: %w", err)
	}

	query := `
		INSERT INTO media_record (
			id, kind, title, category_id, record_date, is_active,
			description, external_url, assets, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.Exec(ctx, query,
		record.ID, record.Kind, record.Title, record.CategoryID,
		record.Date, record.IsActive, record.Description, record.ExternalURL,
		assets, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create record", err)
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, id uuid.UUID) (*mediacontent.Record, error) {
	query := `
		SELECT id, kind, title, category_id, record_date, is_active,
		       description, external_url, assets, created_at, updated_at
		FROM media_record WHERE id = $1`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediacontent.ErrRecordNotFound
		}
		return nil, r.handlePostgresError("get record", err)
	}
	return record, nil
}

func (r *Repository) UpdateRecord(ctx context.Context, record *mediacontent.Record) error {
	if err := r.checkRefOwnership(ctx, record); err != nil {
		return err
	}

	assets, err := json.Marshal(record.Assets)
	if err != nil {
		return fmt.Errorf("failed to encode assets: %w", err)
	}

	query := `
		UPDATE media_record
		SET title = $2, category_id = $3, record_date = $4, is_active = $5,
		    description = $6, external_url = $7, assets = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		record.ID, record.Title, record.CategoryID, record.Date,
		record.IsActive, record.Description, record.ExternalURL,
		assets, record.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update record", err)
	}
	if tag.RowsAffected() == 0 {
		return mediacontent.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media_record WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete record", err)
	}
	if tag.RowsAffected() == 0 {
		return mediacontent.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListRecords(ctx context.Context, filters mediacontent.ListFilters) ([]*mediacontent.Record, error) {
	query := `
		SELECT id, kind, title, category_id, record_date, is_active,
		       description, external_url, assets, created_at, updated_at
		FROM media_record WHERE 1=1`
	var args []interface{}

	if filters.Kind != "" {
		args = append(args, filters.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filters.ActiveOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY record_date DESC, created_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list records", err)
	}
	defer rows.Close()

	var result []*mediacontent.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, r.handlePostgresError("list records", err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list records", err)
	}
	return result, nil
}

func (r *Repository) CountRecordsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM media_record WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count records by category", err)
	}
	return count, nil
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *mediacontent.Category) error {
	query := `
		INSERT INTO category (id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		category.ID, category.Name, category.Kind, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create category", err)
	}
	return nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*mediacontent.Category, error) {
	query := `SELECT id, name, kind, created_at, updated_at FROM category WHERE id = $1`

	var category mediacontent.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Kind,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediacontent.ErrCategoryNotFound
		}
		return nil, r.handlePostgresError("get category", err)
	}
	return &category, nil
}

func (r *Repository) GetCategoryByName(ctx context.Context, kind mediacontent.ContentKind, name string) (*mediacontent.Category, error) {
	query := `
		SELECT id, name, kind, created_at, updated_at
		FROM category WHERE kind = $1 AND LOWER(name) = LOWER($2)`

	var category mediacontent.Category
	err := r.db.QueryRow(ctx, query, kind, name).Scan(
		&category.ID, &category.Name, &category.Kind,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediacontent.ErrCategoryNotFound
		}
		return nil, r.handlePostgresError("get category by name", err)
	}
	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context, kind mediacontent.ContentKind) ([]*mediacontent.Category, error) {
	query := `SELECT id, name, kind, created_at, updated_at FROM category`
	var args []interface{}
	if kind != "" {
		args = append(args, kind)
		query += " WHERE kind = $1"
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list categories", err)
	}
	defer rows.Close()

	var result []*mediacontent.Category
	for rows.Next() {
		var category mediacontent.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Kind,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("list categories", err)
		}
		result = append(result, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list categories", err)
	}
	return result, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return mediacontent.ErrCategoryNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*mediacontent.Record, error) {
	var record mediacontent.Record
	var assets []byte
	err := row.Scan(
		&record.ID, &record.Kind, &record.Title, &record.CategoryID,
		&record.Date, &record.IsActive, &record.Description, &record.ExternalURL,
		&assets, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(assets, &record.Assets); err != nil {
		return nil, fmt.Errorf("failed to decode assets: %w", err)
	}
	return &record, nil
}

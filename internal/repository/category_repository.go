package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantstore/internal/domain"
	"plantstore/internal/slug"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	AppendProduct(ctx context.Context, categoryID, productID uuid.UUID) error
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `
	id, name, slug, description, is_active,
	COALESCE(array_to_string(product_ids, ','), ''), created, updated
`

// Create normalizes the category, derives a store-unique slug from its name
// and inserts it.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.Normalize(time.Now())

	categorySlug, err := slug.Unique(ctx, category.Name, r.slugTaken)
	if err != nil {
		return fmt.Errorf("failed to derive category slug: %w", err)
	}
	category.Slug = categorySlug

	query := `
		INSERT INTO categories (id, name, slug, description, is_active, product_ids, created, updated)
		VALUES ($1, $2, $3, $4, $5, string_to_array($6, ',')::uuid[], $7, $8)
	`

	var updated any
	if !category.Updated.IsZero() {
		updated = category.Updated
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		category.IsActive,
		joinUUIDs(category.ProductIDs),
		category.Created,
		updated,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindBySlug retrieves a category by its unique slug
func (r *categoryRepository) FindBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1`, categoryColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, categorySlug))
}

// List retrieves all categories
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY name ASC`, categoryColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// AppendProduct adds a product reference to the end of the category's member
// list. This is a separate update from the product insert; there is no
// transaction spanning the two.
func (r *categoryRepository) AppendProduct(ctx context.Context, categoryID, productID uuid.UUID) error {
	query := `
		UPDATE categories
		SET product_ids = array_append(product_ids, $2), updated = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, categoryID, productID)
	if err != nil {
		return fmt.Errorf("failed to append product to category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// slugTaken reports whether any category already holds the candidate slug.
func (r *categoryRepository) slugTaken(ctx context.Context, candidate string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, candidate,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to probe category slug: %w", err)
	}
	return taken, nil
}

func (r *categoryRepository) scanOne(row *sql.Row) (*domain.Category, error) {
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	var (
		idsJoined string
		updated   sql.NullTime
	)

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.IsActive,
		&idsJoined,
		&category.Created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	category.ProductIDs, err = splitUUIDs(idsJoined)
	if err != nil {
		return nil, fmt.Errorf("invalid product reference in category %s: %w", category.ID, err)
	}
	if updated.Valid {
		category.Updated = updated.Time
	}

	return category, nil
}

func joinUUIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func splitUUIDs(joined string) ([]uuid.UUID, error) {
	if joined == "" {
		return []uuid.UUID{}, nil
	}
	parts := strings.Split(joined, ",")
	ids := make([]uuid.UUID, len(parts))
	for i, part := range parts {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

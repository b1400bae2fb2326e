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
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSlug   = errors.New("slug is already in use")
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	id, sku, name, slug, image_url, image_key, description, quantity, price,
	taxable, is_active, brand_id, difficulty_level, light_requirements,
	COALESCE(array_to_string(tags, ','), ''), category_id, created, updated
`

// Create normalizes the product, derives a store-unique slug from its name and
// inserts it. The slug column's unique index backs the derivation up: a race
// still surfaces as ErrDuplicateSlug.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	product.Normalize(time.Now())

	productSlug, err := slug.Unique(ctx, product.Name, r.slugTaken)
	if err != nil {
		return fmt.Errorf("failed to derive product slug: %w", err)
	}
	product.Slug = productSlug

	query := `
		INSERT INTO products (id, sku, name, slug, image_url, image_key, description,
			quantity, price, taxable, is_active, brand_id, difficulty_level,
			light_requirements, tags, category_id, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			string_to_array($15, ','), $16, $17, $18)
	`

	var updated any
	if !product.Updated.IsZero() {
		updated = product.Updated
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.SKU,
		product.Name,
		product.Slug,
		product.ImageURL,
		product.ImageKey,
		product.Description,
		product.Quantity,
		product.Price,
		product.Taxable,
		product.IsActive,
		product.BrandID,
		string(product.DifficultyLevel),
		string(product.LightRequirements),
		// Tags travel as a joined string; tokens never contain commas because
		// they were produced by splitting on commas in the first place.
		strings.Join(product.Tags, ","),
		product.CategoryID,
		product.Created,
		updated,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindBySlug retrieves a product by its unique slug
func (r *productRepository) FindBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, productSlug))
}

// FindByName retrieves a product by exact name match. Names are not unique in
// the schema; the oldest match wins.
func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE name = $1 ORDER BY created ASC LIMIT 1`, productColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// List retrieves products with optional category filtering, pagination, and sorting
func (r *productRepository) List(ctx context.Context, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"name":    true,
		"price":   true,
		"created": true,
	}
	if !validSortFields[sortBy] {
		sortBy = "created"
	}
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if categoryID != nil {
		whereClause = fmt.Sprintf("WHERE category_id = $%d", argIndex)
		args = append(args, *categoryID)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// slugTaken reports whether any product already holds the candidate slug.
func (r *productRepository) slugTaken(ctx context.Context, candidate string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, candidate,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to probe product slug: %w", err)
	}
	return taken, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *productRepository) scanOne(row *sql.Row) (*domain.Product, error) {
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		difficulty string
		light      string
		tagsJoined string
		updated    sql.NullTime
	)

	err := row.Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Slug,
		&product.ImageURL,
		&product.ImageKey,
		&product.Description,
		&product.Quantity,
		&product.Price,
		&product.Taxable,
		&product.IsActive,
		&product.BrandID,
		&difficulty,
		&light,
		&tagsJoined,
		&product.CategoryID,
		&product.Created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	product.DifficultyLevel = domain.DifficultyLevel(difficulty)
	product.LightRequirements = domain.LightRequirement(light)
	if tagsJoined == "" {
		product.Tags = []string{}
	} else {
		product.Tags = strings.Split(tagsJoined, ",")
	}
	if updated.Valid {
		product.Updated = updated.Time
	}

	return product, nil
}

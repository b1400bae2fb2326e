// Package importer loads the plant dataset CSV into the catalog store. It is a
// one-shot, non-resumable batch: categories are bootstrapped idempotently,
// rows are processed strictly in order, and a failing row is logged and
// skipped rather than aborting the run.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plantstore/internal/domain"
	"plantstore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The two fixed categories every plant lands in.
const (
	IndoorSlug  = "indoor-plants"
	OutdoorSlug = "outdoor-plants"
)

// defaultQuantity is the stock assigned to every imported plant; the dataset
// has no quantity column.
const defaultQuantity = 10

// RowStatus is the terminal state of a single processed row.
type RowStatus string

const (
	StatusImported RowStatus = "imported"
	StatusSkipped  RowStatus = "skipped"
	StatusFailed   RowStatus = "failed"
)

// RowResult is the tagged outcome of one row.
type RowResult struct {
	Name   string
	Status RowStatus
	Err    error
}

// Report accumulates per-row outcomes for a whole run. The pipeline itself
// never fails on partial success; callers decide what to make of the counts.
type Report struct {
	Results  []RowResult
	Imported int
	Skipped  int
	Failed   int
}

func (r *Report) add(result RowResult) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case StatusImported:
		r.Imported++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// Importer orchestrates the batch load of plant rows into the catalog.
type Importer struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// New creates a new Importer
func New(products repository.ProductRepository, categories repository.CategoryRepository, logger *zap.Logger) *Importer {
	return &Importer{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// EnsureCategories creates the indoor and outdoor categories if they do not
// exist yet and returns their ids. Lookup is by slug, so re-running never
// creates duplicates.
func (i *Importer) EnsureCategories(ctx context.Context) (indoorID, outdoorID uuid.UUID, err error) {
	indoorID, err = i.ensureCategory(ctx, IndoorSlug,
		"Indoor Plants", "Plants that thrive indoors with less direct sunlight")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	outdoorID, err = i.ensureCategory(ctx, OutdoorSlug,
		"Outdoor Plants", "Plants that thrive outdoors with more direct sunlight")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return indoorID, outdoorID, nil
}

func (i *Importer) ensureCategory(ctx context.Context, slug, name, description string) (uuid.UUID, error) {
	existing, err := i.categories.FindBySlug(ctx, slug)
	if err == nil {
		i.logger.Warn("Category already exists", zap.String("slug", slug))
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return uuid.Nil, fmt.Errorf("failed to look up category %q: %w", slug, err)
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsActive:    true,
		ProductIDs:  []uuid.UUID{},
	}
	if err := i.categories.Create(ctx, category); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}

	i.logger.Info("Category created", zap.String("name", name), zap.String("slug", category.Slug))
	return category.ID, nil
}

// Run executes the import: category bootstrap, then one sequential pass over
// the rows. Bootstrap failure aborts the run; a row failure is recorded in the
// report and the loop continues.
func (i *Importer) Run(ctx context.Context, rows []Row) (*Report, error) {
	i.logger.Info("Plant data import started", zap.Int("rows", len(rows)))

	indoorID, outdoorID, err := i.EnsureCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("category bootstrap failed: %w", err)
	}

	report := &Report{}
	for _, row := range rows {
		name := row[colName]
		status, err := i.processRow(ctx, row, indoorID, outdoorID)
		report.add(RowResult{Name: name, Status: status, Err: err})

		switch status {
		case StatusImported:
			i.logger.Info("Plant imported", zap.String("name", name))
		case StatusSkipped:
			i.logger.Warn("Plant already exists, skipping", zap.String("name", name))
		case StatusFailed:
			i.logger.Error("Failed to import plant", zap.String("name", name), zap.Error(err))
		}
	}

	i.logger.Info("Plant data import completed",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (i *Importer) processRow(ctx context.Context, row Row, indoorID, outdoorID uuid.UUID) (RowStatus, error) {
	name := row[colName]

	// Binary classifier: anything whose category mentions "indoor" is indoor,
	// everything else is outdoor.
	categoryID := outdoorID
	if strings.Contains(strings.ToLower(row[colCategory]), "indoor") {
		categoryID = indoorID
	}

	// Dedup by exact name; an existing plant is never merged or overwritten.
	_, err := i.products.FindByName(ctx, name)
	if err == nil {
		return StatusSkipped, nil
	}
	if !errors.Is(err, repository.ErrProductNotFound) {
		return StatusFailed, fmt.Errorf("failed to check for existing plant: %w", err)
	}

	product := &domain.Product{
		ID:                uuid.New(),
		SKU:               GenerateSKU(name),
		Name:              name,
		Description:       row[colDescription],
		Quantity:          defaultQuantity,
		Price:             RandomPrice(),
		Taxable:           true,
		IsActive:          true,
		DifficultyLevel:   MapDifficulty(row[colDifficulty]),
		LightRequirements: MapLight(row[colLight]),
		Tags:              ParseTags(row[colTags]),
		CategoryID:        categoryID,
	}

	if err := i.products.Create(ctx, product); err != nil {
		return StatusFailed, fmt.Errorf("failed to save plant: %w", err)
	}

	// The link is a separate, non-transactional update; a crash between the
	// insert and this point leaves the product outside the category list.
	if err := i.categories.AppendProduct(ctx, categoryID, product.ID); err != nil {
		return StatusFailed, fmt.Errorf("failed to link plant to category: %w", err)
	}

	return StatusImported, nil
}

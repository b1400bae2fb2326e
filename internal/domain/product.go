package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DifficultyLevel describes how demanding a plant is to care for.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// LightRequirement describes how much light a plant needs.
type LightRequirement string

const (
	LightLow    LightRequirement = "Low"
	LightMedium LightRequirement = "Medium"
	LightHigh   LightRequirement = "High"
)

// Product represents a plant product in the catalog
type Product struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	SKU               string           `json:"sku" db:"sku"`
	Name              string           `json:"name" db:"name"`
	Slug              string           `json:"slug" db:"slug"`
	ImageURL          string           `json:"image_url" db:"image_url"`
	ImageKey          string           `json:"image_key" db:"image_key"`
	Description       string           `json:"description" db:"description"`
	Quantity          int              `json:"quantity" db:"quantity"`
	Price             decimal.Decimal  `json:"price" db:"price"`
	Taxable           bool             `json:"taxable" db:"taxable"`
	IsActive          bool             `json:"is_active" db:"is_active"`
	BrandID           uuid.NullUUID    `json:"brand_id" db:"brand_id"`
	DifficultyLevel   DifficultyLevel  `json:"difficulty_level" db:"difficulty_level"`
	LightRequirements LightRequirement `json:"light_requirements" db:"light_requirements"`
	Tags              []string         `json:"tags" db:"tags"`
	CategoryID        uuid.UUID        `json:"category_id" db:"category_id"`
	Created           time.Time        `json:"created" db:"created"`
	Updated           time.Time        `json:"updated" db:"updated"`
}

// Normalize trims text fields and fills defaults for fields left at their zero
// value. Repositories call it before every insert. Boolean defaults (taxable
// false, is_active true) live in the schema since a zero bool is
// indistinguishable from an omitted one.
func (p *Product) Normalize(now time.Time) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.DifficultyLevel == "" {
		p.DifficultyLevel = DifficultyEasy
	}
	if p.LightRequirements == "" {
		p.LightRequirements = LightMedium
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Created.IsZero() {
		p.Created = now
	}
}

// Category represents a product category. ProductIDs is the category's ordered
// member list and the only linkage back to its products; keeping it in step
// with each product's CategoryID is the writer's responsibility.
type Category struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Slug        string      `json:"slug" db:"slug"`
	Description string      `json:"description" db:"description"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	ProductIDs  []uuid.UUID `json:"product_ids" db:"product_ids"`
	Created     time.Time   `json:"created" db:"created"`
	Updated     time.Time   `json:"updated" db:"updated"`
}

// Normalize trims text fields and fills defaults, mirroring Product.Normalize.
func (c *Category) Normalize(now time.Time) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if c.ProductIDs == nil {
		c.ProductIDs = []uuid.UUID{}
	}
	if c.Created.IsZero() {
		c.Created = now
	}
}

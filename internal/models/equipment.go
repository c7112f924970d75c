package models

import (
	"strings"
	"time"
)

// DefaultCurrency is applied to equipment created without an explicit currency.
const DefaultCurrency = "RUB"

// Specifications is the free-form technical attribute map of an equipment record.
// Values are JSON scalars: strings, float64 numbers and booleans.
type Specifications map[string]any

// Equipment represents a single catalog item.
// The JSON tags define its external projection.
type Equipment struct {
	ID             int64          `json:"id"`             // Store-assigned identity, immutable
	Name           string         `json:"name"`           // Display name, never empty
	Category       string         `json:"category"`       // Category label, compared exactly
	Description    *string        `json:"description"`    // Optional long description
	Price          float64        `json:"price"`          // Non-negative price
	Currency       string         `json:"currency"`       // ISO currency code
	Brand          *string        `json:"brand"`          // Optional manufacturer
	Model          *string        `json:"model"`          // Optional model designation
	Specifications Specifications `json:"specifications"` // Decoded specification map, nil when absent
	Availability   bool           `json:"availability"`   // Whether the item is in stock
	CreatedAt      time.Time      `json:"created_at"`     // Set once on creation
	UpdatedAt      time.Time      `json:"updated_at"`     // Refreshed on every mutation
}

// EquipmentInput carries the fields accepted when creating equipment.
type EquipmentInput struct {
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Description    *string        `json:"description"`
	Price          *float64       `json:"price"`
	Currency       string         `json:"currency"`
	Brand          *string        `json:"brand"`
	Model          *string        `json:"model"`
	Specifications Specifications `json:"specifications"`
	Availability   *bool          `json:"availability"`
}

// EquipmentPatch describes a sparse update. Nil fields are left untouched.
// A non-nil Specifications replaces the stored map wholesale; an empty map clears it.
type EquipmentPatch struct {
	Name           *string        `json:"name"`
	Category       *string        `json:"category"`
	Description    *string        `json:"description"`
	Price          *float64       `json:"price"`
	Currency       *string        `json:"currency"`
	Brand          *string        `json:"brand"`
	Model          *string        `json:"model"`
	Specifications Specifications `json:"specifications"`
	Availability   *bool          `json:"availability"`
}

// SearchFilter is a partially populated set of search criteria.
// Present fields are combined with AND; Query matches name, description, brand
// or model by case-insensitive substring.
type SearchFilter struct {
	Query        *string  `json:"query"`
	Category     *string  `json:"category"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	Brand        *string  `json:"brand"`
	Availability *bool    `json:"availability"`
}

// Normalize trims text criteria and drops the ones that end up empty.
func (f SearchFilter) Normalize() SearchFilter {
	f.Query = trimmedOrNil(f.Query)
	f.Category = trimmedOrNil(f.Category)
	f.Brand = trimmedOrNil(f.Brand)
	return f
}

// IsEmpty reports whether no criterion is present.
func (f SearchFilter) IsEmpty() bool {
	return f.Query == nil && f.Category == nil && f.MinPrice == nil && f.MaxPrice == nil &&
		f.Brand == nil && f.Availability == nil
}

// CategoryCount is the number of records in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CatalogStats summarizes the catalog for administrators.
type CatalogStats struct {
	Total       int             `json:"total"`
	Available   int             `json:"available"`
	Unavailable int             `json:"unavailable"`
	Categories  []CategoryCount `json:"categories"`
	Brands      int             `json:"brands"`
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

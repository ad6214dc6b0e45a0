package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provenance identifies which source produced a recipe.
type Provenance string

const (
	ProvenanceLocal     Provenance = "local"
	ProvenanceCatalog   Provenance = "catalog"
	ProvenanceGenerated Provenance = "generated"
)

// GeneratedPoolCapacity is the maximum number of persisted generated
// recipes kept at any time. The oldest entry is evicted when an insert
// would exceed it.
const GeneratedPoolCapacity = 5

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Nutrition holds per-recipe macro values as free text. Sources that do
// not report a value use "unknown".
type Nutrition struct {
	Calories      string `gorm:"size:50;default:'unknown'" json:"calories"`
	Protein       string `gorm:"size:50;default:'unknown'" json:"protein"`
	Fat           string `gorm:"size:50;default:'unknown'" json:"fat"`
	Carbohydrates string `gorm:"size:50;default:'unknown'" json:"carbohydrates"`
}

// Recipe is the canonical shape for a recipe regardless of origin. The ID
// is source-namespaced: a raw uuid for local recipes, "catalog:<id>" for
// imported catalog recipes and "generated:<seed>[-suffix]" for recipes
// produced by the generation pipeline.
type Recipe struct {
	ID              string           `gorm:"primaryKey;size:128" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	Title           string           `gorm:"size:255;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	ImageURL        string           `gorm:"size:512" json:"image_url"`
	Ingredients     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	CuisineType     string           `gorm:"size:100" json:"cuisine_type"`
	DietType        string           `gorm:"size:100" json:"diet_type"`
	CookTime        string           `gorm:"size:100" json:"cook_time"`
	CookTimeMinutes *int             `json:"cook_time_minutes,omitempty"`
	Nutrition       Nutrition        `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutrition"`
	Provenance      Provenance       `gorm:"size:20;not null;default:'local'" json:"provenance"`
	OwnerRef        string           `gorm:"size:128" json:"owner_ref"`
}

// ErrEmptyTitle is returned when a recipe without a title is persisted.
var ErrEmptyTitle = errors.New("recipe title must not be empty")

// BeforeCreate assigns a uuid to local recipes that arrive without an ID
// and enforces the non-empty-title invariant for every persisted recipe.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Provenance == "" {
		r.Provenance = ProvenanceLocal
	}
	return nil
}

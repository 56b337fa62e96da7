package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Ingredient struct {
	gorm.Model
	Name        string              `gorm:"not null" json:"name"`
	Quantity    decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Unit        string              `gorm:"not null" json:"unit"`
	CostPerUnit decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"cost_per_unit"`
	Position    int                 `gorm:"not null;default:0" json:"position"`

	// Null means the ingredient sits in the implicit ungrouped bucket.
	GroupID *uint `gorm:"index" json:"group_id"`

	// --- Owner ---
	// Exactly one of these is set.
	RecipeID *uint `gorm:"index" json:"recipe_id,omitempty"`
	MenuID   *uint `gorm:"index" json:"menu_id,omitempty"`
}

// IngredientGroup is a named, ordered subdivision of a recipe's or menu's ingredient list.
// Names are unique within the owner, checked on write by importer.GroupNameTaken.
type IngredientGroup struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	RecipeID  *uint  `gorm:"index" json:"recipe_id,omitempty"`
	MenuID    *uint  `gorm:"index" json:"menu_id,omitempty"`
}

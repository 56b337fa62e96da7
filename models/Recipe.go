package models

import (
	"gorm.io/gorm"
)

type Recipe struct {
	gorm.Model
	Name         string            `gorm:"not null;index" json:"name"`
	Description  string            `gorm:"type:text" json:"description"`
	Category     string            `json:"category"`
	Servings     int               `gorm:"not null;default:1" json:"servings"`
	Instructions string            `gorm:"type:text" json:"instructions"`
	Ingredients  []Ingredient      `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Groups       []IngredientGroup `gorm:"foreignKey:RecipeID" json:"groups"`
}

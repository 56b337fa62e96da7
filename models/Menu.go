package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeSnacks    = "snacks"
	MealTypeDinner    = "dinner"
)

var mealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeSnacks, MealTypeDinner}

// Menu is a planned meal: one recipe scheduled for a date, kitchen and meal type.
// Its ingredient list starts as a copy of the recipe's and may be overridden.
type Menu struct {
	gorm.Model
	Date        time.Time         `gorm:"type:date;not null;index" json:"date"`
	KitchenID   uint              `gorm:"not null;index" json:"kitchen_id"`
	Kitchen     *Kitchen          `gorm:"foreignKey:KitchenID" json:"kitchen,omitempty"`
	MealType    string            `gorm:"not null;index" json:"meal_type"`
	RecipeID    *uint             `gorm:"index" json:"recipe_id"`
	Recipe      *Recipe           `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	Servings    int               `gorm:"not null;default:1" json:"servings"`
	GhanFactor  decimal.Decimal   `gorm:"type:decimal(20,4);not null;default:1" json:"ghan_factor"`
	Notes       string            `gorm:"type:text" json:"notes"`
	Ingredients []Ingredient      `gorm:"foreignKey:MenuID" json:"ingredients"`
	Groups      []IngredientGroup `gorm:"foreignKey:MenuID" json:"groups"`
}

// MealTypes returns the meal types in service order.
func MealTypes() []string {
	result := make([]string, len(mealTypes))
	copy(result, mealTypes)
	return result
}

// ValidMealType reports whether value is one of the canonical meal types.
func ValidMealType(value string) bool {
	for _, option := range mealTypes {
		if value == option {
			return true
		}
	}
	return false
}

// NormalizeMealType lowercases and trims value, returning "" when it is not a known meal type.
func NormalizeMealType(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if ValidMealType(normalized) {
		return normalized
	}
	return ""
}

// MealTypeRank orders meal types through the day; unknown values sort last.
func MealTypeRank(value string) int {
	for idx, option := range mealTypes {
		if value == option {
			return idx
		}
	}
	return len(mealTypes)
}

package aggregate

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kitchenops/models"
)

var (
	ErrMissingRecipe  = errors.New("aggregate: planned meal has no recipe")
	ErrMissingKitchen = errors.New("aggregate: planned meal has no kitchen")
)

// RecipeRef is the recipe metadata carried by a planned meal.
type RecipeRef struct {
	ID           uint
	Name         string
	Description  string
	Category     string
	Servings     int
	Instructions string
}

// PlannedMeal is a well-formed menu entry ready for aggregation.
type PlannedMeal struct {
	MenuID      uint
	Date        time.Time
	Kitchen     string
	MealType    string
	Recipe      RecipeRef
	Servings    int
	GhanFactor  decimal.Decimal
	Ingredients []models.Ingredient
	Groups      []models.IngredientGroup
}

// Scale returns the ghan factor applied to the meal's quantities. Non-positive factors count as 1.
func (m PlannedMeal) Scale() decimal.Decimal {
	if m.GhanFactor.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return m.GhanFactor
}

// ScaledIngredients returns copies of the meal's ingredients with quantities multiplied by
// Scale. The meal itself is not modified.
func (m PlannedMeal) ScaledIngredients() []models.Ingredient {
	scale := m.Scale()
	scaled := make([]models.Ingredient, len(m.Ingredients))
	for idx, ingredient := range m.Ingredients {
		ingredient.Quantity = ingredient.Quantity.Mul(scale)
		scaled[idx] = ingredient
	}
	return scaled
}

// FromMenu validates a loaded menu and converts it. The menu's Kitchen and Recipe
// associations must be preloaded.
func FromMenu(menu models.Menu) (PlannedMeal, error) {
	if menu.Recipe == nil {
		return PlannedMeal{}, fmt.Errorf("menu %d: %w", menu.ID, ErrMissingRecipe)
	}
	if menu.Kitchen == nil {
		return PlannedMeal{}, fmt.Errorf("menu %d: %w", menu.ID, ErrMissingKitchen)
	}

	return PlannedMeal{
		MenuID:   menu.ID,
		Date:     menu.Date,
		Kitchen:  menu.Kitchen.Name,
		MealType: menu.MealType,
		Recipe: RecipeRef{
			ID:           menu.Recipe.ID,
			Name:         menu.Recipe.Name,
			Description:  menu.Recipe.Description,
			Category:     menu.Recipe.Category,
			Servings:     menu.Recipe.Servings,
			Instructions: menu.Recipe.Instructions,
		},
		Servings:    menu.Servings,
		GhanFactor:  menu.GhanFactor,
		Ingredients: menu.Ingredients,
		Groups:      menu.Groups,
	}, nil
}

// FromMenus converts menus in order and stops at the first malformed record.
func FromMenus(menus []models.Menu) ([]PlannedMeal, error) {
	meals := make([]PlannedMeal, 0, len(menus))
	for _, menu := range menus {
		meal, err := FromMenu(menu)
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"kitchenops/models"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%q): %v", value, err)
	}
	return d
}

func cost(t *testing.T, value string) decimal.NullDecimal {
	t.Helper()
	return decimal.NewNullDecimal(dec(t, value))
}

func groupID(id uint) *uint {
	return &id
}

func ingredient(t *testing.T, id uint, name, quantity, unit string, group *uint) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, Quantity: dec(t, quantity), Unit: unit, GroupID: group}
	ing.ID = id
	return ing
}

func group(id uint, name string, sortOrder int) models.IngredientGroup {
	g := models.IngredientGroup{Name: name, SortOrder: sortOrder}
	g.ID = id
	return g
}

func meal(recipeID uint, recipe, kitchen, mealType string, servings int, ingredients ...models.Ingredient) PlannedMeal {
	return PlannedMeal{
		Kitchen:     kitchen,
		MealType:    mealType,
		Recipe:      RecipeRef{ID: recipeID, Name: recipe},
		Servings:    servings,
		GhanFactor:  decimal.NewFromInt(1),
		Ingredients: ingredients,
	}
}

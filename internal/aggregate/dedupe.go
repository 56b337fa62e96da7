package aggregate

import (
	"github.com/shopspring/decimal"

	"kitchenops/models"
)

// RecipeAttachment is a recipe printed alongside a report, carrying the quantities that were
// actually planned: the menu's copy of the ingredients scaled by its ghan factor.
type RecipeAttachment struct {
	Recipe      RecipeRef
	Kitchen     string
	MealType    string
	Servings    int
	GhanFactor  decimal.Decimal
	Ingredients []models.Ingredient
	Groups      []models.IngredientGroup
}

// DistinctRecipes keeps one attachment per recipe id. The first planned meal for a recipe
// wins: its servings and ingredient list are used and later meals of the same recipe are
// dropped, including their servings.
func DistinctRecipes(meals []PlannedMeal) []RecipeAttachment {
	seen := make(map[uint]struct{}, len(meals))
	attachments := make([]RecipeAttachment, 0, len(meals))
	for _, meal := range meals {
		if _, ok := seen[meal.Recipe.ID]; ok {
			continue
		}
		seen[meal.Recipe.ID] = struct{}{}
		attachments = append(attachments, RecipeAttachment{
			Recipe:      meal.Recipe,
			Kitchen:     meal.Kitchen,
			MealType:    meal.MealType,
			Servings:    meal.Servings,
			GhanFactor:  meal.GhanFactor,
			Ingredients: meal.ScaledIngredients(),
			Groups:      meal.Groups,
		})
	}
	return attachments
}

// Buckets groups the attachment's ingredients for printing.
func (a RecipeAttachment) Buckets() Buckets {
	return GroupIngredients(a.Ingredients, a.Groups)
}

package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"kitchenops/models"
)

func TestDistinctRecipesKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	first := meal(7, "Chole", "Central", models.MealTypeLunch, 50, ingredient(t, 1, "Chickpeas", "5", "kg", nil))
	second := meal(7, "Chole", "Annexe", models.MealTypeDinner, 80, ingredient(t, 2, "Chickpeas", "8", "kg", nil))
	other := meal(9, "Bhature", "Central", models.MealTypeLunch, 50)

	attachments := DistinctRecipes([]PlannedMeal{first, other, second})
	if len(attachments) != 2 {
		t.Fatalf("len(DistinctRecipes()) = %d, want 2", len(attachments))
	}

	chole := attachments[0]
	if chole.Recipe.ID != 7 || chole.Servings != 50 || chole.Kitchen != "Central" {
		t.Fatalf("first attachment = %+v, want recipe 7 with 50 servings from Central", chole)
	}
	if diff := cmp.Diff(first.Ingredients, chole.Ingredients, decimalEqual); diff != "" {
		t.Fatalf("attachment ingredients mismatch (-want +got):\n%s", diff)
	}
	if attachments[1].Recipe.ID != 9 {
		t.Fatalf("second attachment recipe = %d, want 9", attachments[1].Recipe.ID)
	}
}

func TestRecipeAttachmentBuckets(t *testing.T) {
	t.Parallel()

	m := meal(3, "Paratha", "Central", models.MealTypeBreakfast, 30,
		ingredient(t, 1, "Atta", "3", "kg", groupID(11)),
		ingredient(t, 2, "Butter", "0.5", "kg", nil),
	)
	m.Groups = []models.IngredientGroup{group(11, "Dough", 0)}

	buckets := DistinctRecipes([]PlannedMeal{m})[0].Buckets()
	if diff := cmp.Diff([]string{"Dough", UngroupedLabel}, buckets.Names()); diff != "" {
		t.Fatalf("bucket names mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctRecipesScalesByGhanFactor(t *testing.T) {
	t.Parallel()

	m := meal(5, "Upma", "Central", models.MealTypeBreakfast, 40, ingredient(t, 1, "Rava", "2", "kg", nil))
	m.Ingredients[0].CostPerUnit = cost(t, "100")
	m.GhanFactor = decimal.NewFromInt(3)

	attachment := DistinctRecipes([]PlannedMeal{m})[0]
	if got := attachment.Ingredients[0].Quantity; !got.Equal(dec(t, "6")) {
		t.Fatalf("attachment quantity = %s, want 6", got)
	}
	if got := m.Ingredients[0].Quantity; !got.Equal(dec(t, "2")) {
		t.Fatalf("meal quantity after DistinctRecipes = %s, want 2", got)
	}

	combined := CombinedTotals(Combine([]PlannedMeal{m}))
	if got := SumBuckets(attachment.Buckets()); !got.Cost.Equal(combined.Cost) || !got.Quantity.Equal(combined.Quantity) {
		t.Fatalf("attachment totals = %+v, want combined %+v", got, combined)
	}
}

package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"kitchenops/models"
)

func TestCombineKeepsCaseSensitiveKeysApart(t *testing.T) {
	t.Parallel()

	combined := Combine([]PlannedMeal{
		meal(1, "Pulao", "Central", models.MealTypeLunch, 40, ingredient(t, 1, "Rice", "1", "kg", nil)),
		meal(2, "Kheer", "Central", models.MealTypeDinner, 40, ingredient(t, 2, "rice", "1", "kg", nil)),
	})

	if len(combined) != 2 {
		t.Fatalf("len(Combine()) = %d, want 2", len(combined))
	}
	if combined[0].Name != "Rice" || combined[1].Name != "rice" {
		t.Fatalf("Combine() names = %q, %q; want Rice, rice", combined[0].Name, combined[1].Name)
	}
}

func TestCombineDoesNotConvertUnits(t *testing.T) {
	t.Parallel()

	combined := Combine([]PlannedMeal{
		meal(1, "Halwa", "Central", models.MealTypeSnacks, 20,
			ingredient(t, 1, "Sugar", "1", "kg", nil),
			ingredient(t, 2, "Sugar", "1000", "g", nil),
		),
	})

	if len(combined) != 2 {
		t.Fatalf("len(Combine()) = %d, want 2", len(combined))
	}
	if combined[0].Unit != "g" || combined[1].Unit != "kg" {
		t.Fatalf("Combine() units = %q, %q; want g, kg", combined[0].Unit, combined[1].Unit)
	}
}

func TestCombineTracksEverySource(t *testing.T) {
	t.Parallel()

	onion := func(id uint, quantity string) models.Ingredient {
		ing := ingredient(t, id, "Onion", quantity, "kg", nil)
		ing.CostPerUnit = cost(t, "30")
		return ing
	}

	meals := []PlannedMeal{
		meal(1, "Poha", "Central", models.MealTypeBreakfast, 60, onion(1, "2")),
		meal(2, "Sabzi", "Central", models.MealTypeLunch, 80, onion(2, "3.5")),
		meal(2, "Sabzi", "Annexe", models.MealTypeLunch, 30, onion(3, "1.25")),
	}

	combined := Combine(meals)
	if len(combined) != 1 {
		t.Fatalf("len(Combine()) = %d, want 1", len(combined))
	}

	want := CombinedIngredient{
		Name:          "Onion",
		Unit:          "kg",
		TotalQuantity: dec(t, "6.75"),
		TotalCost:     dec(t, "202.5"),
		Sources: []Source{
			{Kitchen: "Central", MealType: models.MealTypeBreakfast, Recipe: "Poha", Quantity: dec(t, "2"), Servings: 60},
			{Kitchen: "Central", MealType: models.MealTypeLunch, Recipe: "Sabzi", Quantity: dec(t, "3.5"), Servings: 80},
			{Kitchen: "Annexe", MealType: models.MealTypeLunch, Recipe: "Sabzi", Quantity: dec(t, "1.25"), Servings: 30},
		},
	}
	if diff := cmp.Diff(want, combined[0], decimalEqual); diff != "" {
		t.Fatalf("Combine() mismatch (-want +got):\n%s", diff)
	}
}

func TestCombineAppliesGhanFactorOnce(t *testing.T) {
	t.Parallel()

	ghee := ingredient(t, 1, "Ghee", "2", "kg", nil)
	ghee.CostPerUnit = cost(t, "600")

	scaled := meal(1, "Dal Tadka", "Central", models.MealTypeLunch, 100, ghee)
	scaled.GhanFactor = decimal.NewFromFloat(2.5)

	unscaled := meal(2, "Jeera Rice", "Central", models.MealTypeLunch, 100, ghee)
	unscaled.GhanFactor = decimal.Zero

	combined := Combine([]PlannedMeal{scaled, unscaled})
	if len(combined) != 1 {
		t.Fatalf("len(Combine()) = %d, want 1", len(combined))
	}
	if want := dec(t, "7"); !combined[0].TotalQuantity.Equal(want) {
		t.Fatalf("TotalQuantity = %s, want %s", combined[0].TotalQuantity, want)
	}
	if want := dec(t, "4200"); !combined[0].TotalCost.Equal(want) {
		t.Fatalf("TotalCost = %s, want %s", combined[0].TotalCost, want)
	}
	if got := combined[0].Sources[0].Quantity; !got.Equal(dec(t, "5")) {
		t.Fatalf("first source quantity = %s, want 5", got)
	}
}

func TestCombineIsIdempotent(t *testing.T) {
	t.Parallel()

	meals := []PlannedMeal{
		meal(1, "Upma", "Central", models.MealTypeBreakfast, 40,
			ingredient(t, 1, "Rava", "3", "kg", nil),
			ingredient(t, 2, "Mustard seeds", "0.05", "kg", nil),
		),
		meal(2, "Rava Kesari", "Annexe", models.MealTypeSnacks, 25,
			ingredient(t, 3, "Rava", "1", "kg", nil),
			ingredient(t, 4, "Sugar", "1", "kg", nil),
		),
	}

	first := Combine(meals)
	second := Combine(meals)
	if diff := cmp.Diff(first, second, decimalEqual); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}

	names := make([]string, 0, len(first))
	for _, item := range first {
		names = append(names, item.Name)
	}
	if diff := cmp.Diff([]string{"Mustard seeds", "Rava", "Sugar"}, names); diff != "" {
		t.Fatalf("Combine() order mismatch (-want +got):\n%s", diff)
	}
	if got := meals[0].Ingredients[0].Quantity; !got.Equal(dec(t, "3")) {
		t.Fatalf("input quantity mutated to %s", got)
	}
}

func TestCombineEmpty(t *testing.T) {
	t.Parallel()

	combined := Combine(nil)
	if combined == nil || len(combined) != 0 {
		t.Fatalf("Combine(nil) = %#v, want empty slice", combined)
	}
	if totals := CombinedTotals(combined); !totals.Cost.IsZero() || !totals.Quantity.IsZero() {
		t.Fatalf("CombinedTotals(empty) = %+v, want zero", totals)
	}
}

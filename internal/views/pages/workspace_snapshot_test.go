package pages

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitchenops/models"
)

var snapshotDay = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func plannedMenu(id uint, kitchen, mealType string, recipe *models.Recipe, servings int, ghan int64, ingredients ...models.Ingredient) models.Menu {
	menu := models.Menu{
		Model:       gorm.Model{ID: id},
		Date:        snapshotDay,
		Kitchen:     &models.Kitchen{Name: kitchen},
		MealType:    mealType,
		Recipe:      recipe,
		Servings:    servings,
		GhanFactor:  decimal.NewFromInt(ghan),
		Ingredients: ingredients,
	}
	return menu
}

func pricedIngredient(name string, quantity, cost int64) models.Ingredient {
	return models.Ingredient{
		Name:        name,
		Quantity:    decimal.NewFromInt(quantity),
		Unit:        "kg",
		CostPerUnit: decimal.NewNullDecimal(decimal.NewFromInt(cost)),
	}
}

func TestNewWorkspaceSnapshotCostsMeals(t *testing.T) {
	poha := &models.Recipe{Model: gorm.Model{ID: 1}, Name: "Poha"}
	dal := &models.Recipe{Model: gorm.Model{ID: 2}, Name: "Dal"}

	menus := []models.Menu{
		plannedMenu(1, "Central Kitchen", models.MealTypeBreakfast, poha, 60, 2, pricedIngredient("Poha", 3, 48)),
		plannedMenu(2, "Annexe", models.MealTypeLunch, dal, 80, 1, pricedIngredient("Toor dal", 4, 120)),
		plannedMenu(3, "Annexe", models.MealTypeDinner, nil, 50, 1),
	}

	snapshot := NewWorkspaceSnapshot(snapshotDay, menus, nil, nil, "ledger", "₹")

	if snapshot.Meals != 2 || snapshot.Malformed != 1 || snapshot.Servings != 140 {
		t.Fatalf("snapshot counts = meals %d, malformed %d, servings %d", snapshot.Meals, snapshot.Malformed, snapshot.Servings)
	}
	if !snapshot.Cost.Equal(decimal.NewFromInt(768)) {
		t.Fatalf("snapshot cost = %s, want 768", snapshot.Cost)
	}
	if len(snapshot.Days) != 2 || snapshot.Days[0].Name != "Annexe" || snapshot.Days[1].Name != "Central Kitchen" {
		t.Fatalf("days = %+v, want Annexe then Central Kitchen", snapshot.Days)
	}

	row := snapshot.Days[1].Meals[0]
	if row.MealType != "Breakfast" || row.Ghan != "2" || row.Cost != "₹288.00" {
		t.Fatalf("central row = %+v", row)
	}
	if snapshot.Theme != models.ThemeLedger {
		t.Fatalf("theme = %q, want ledger", snapshot.Theme)
	}
}

func TestNewWorkspaceSnapshotSortsCollections(t *testing.T) {
	recipes := []models.Recipe{{Model: gorm.Model{ID: 2}, Name: "upma"}, {Model: gorm.Model{ID: 1}, Name: "Dal Tadka"}}
	kitchens := []models.Kitchen{{Name: "Hostel Annexe"}, {Name: "Central Kitchen"}}

	snapshot := NewWorkspaceSnapshot(snapshotDay, nil, recipes, kitchens, "", "₹")

	if snapshot.Recipes[0].Name != "Dal Tadka" {
		t.Fatalf("expected recipes sorted case-insensitively: %v", snapshot.Recipes)
	}
	if snapshot.Kitchens[0].Name != "Central Kitchen" {
		t.Fatalf("expected kitchens sorted by name: %v", snapshot.Kitchens)
	}
	if snapshot.Theme != models.DefaultTheme {
		t.Fatalf("expected default theme for empty preference, got %q", snapshot.Theme)
	}
}

func TestEmptyWorkspaceSnapshotUsesDefaultTheme(t *testing.T) {
	snap := EmptyWorkspaceSnapshot()
	if snap.Theme != models.DefaultTheme {
		t.Fatalf("expected default theme %s, got %s", models.DefaultTheme, snap.Theme)
	}
}

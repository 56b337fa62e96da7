package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/importer"
	"kitchenops/models"
)

var (
	decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	reportDay    = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%q): %v", value, err)
	}
	return d
}

func priced(t *testing.T, name, quantity, unit, costPerUnit string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, Quantity: dec(t, quantity), Unit: unit}
	if costPerUnit != "" {
		ing.CostPerUnit = decimal.NewNullDecimal(dec(t, costPerUnit))
	}
	return ing
}

func plannedMeal(recipeID uint, recipe, kitchen, mealType string, servings int, ingredients ...models.Ingredient) aggregate.PlannedMeal {
	return aggregate.PlannedMeal{
		Kitchen:     kitchen,
		MealType:    mealType,
		Recipe:      aggregate.RecipeRef{ID: recipeID, Name: recipe},
		Servings:    servings,
		GhanFactor:  decimal.NewFromInt(1),
		Ingredients: ingredients,
	}
}

func newReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:reports-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedRecipe(t *testing.T, db *gorm.DB, name string, servings int, text string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{Name: name, Servings: servings}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("create recipe %q: %v", name, err)
	}
	lines, warnings := importer.ParseLines(text)
	if len(warnings) > 0 {
		t.Fatalf("ParseLines(%q) warnings = %v", text, warnings)
	}
	if _, err := importer.Apply(context.Background(), db, &recipe, lines); err != nil {
		t.Fatalf("apply lines for %q: %v", name, err)
	}
	return recipe
}

func seedKitchen(t *testing.T, db *gorm.DB, name string) models.Kitchen {
	t.Helper()
	kitchen := models.Kitchen{Name: name, Active: true}
	if err := db.Create(&kitchen).Error; err != nil {
		t.Fatalf("create kitchen %q: %v", name, err)
	}
	return kitchen
}

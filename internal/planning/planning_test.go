package planning

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kitchenops/internal/importer"
	"kitchenops/models"
)

func newPlanningTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:planning-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

type fixture struct {
	central models.Kitchen
	annexe  models.Kitchen
	poha    models.Recipe
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		central: models.Kitchen{Name: "Central Kitchen", Active: true},
		annexe:  models.Kitchen{Name: "Annexe", Active: true},
		poha:    models.Recipe{Name: "Poha", Servings: 60},
	}
	for _, record := range []any{&f.central, &f.annexe, &f.poha} {
		if err := db.Create(record).Error; err != nil {
			t.Fatalf("create %T: %v", record, err)
		}
	}

	lines, _ := importer.ParseLines("Poha, 3, kg, 48\n# Tadka\nMustard seeds, 0.05, kg, 200\nOnion, 2, kg, 30")
	if _, err := importer.Apply(ctx, db, &f.poha, lines); err != nil {
		t.Fatalf("apply recipe lines: %v", err)
	}
	return f
}

func TestPlanCopiesRecipeIngredients(t *testing.T) {
	ctx := context.Background()
	db := newPlanningTestDB(t)
	f := seedFixture(t, db)

	date := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	menu, err := Plan(ctx, db, Input{Date: date, KitchenID: f.central.ID, MealType: " Breakfast ", RecipeID: f.poha.ID})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if !menu.Date.Equal(Day(date)) {
		t.Fatalf("menu date = %s, want %s", menu.Date, Day(date))
	}
	if menu.MealType != models.MealTypeBreakfast || menu.Servings != 60 || !menu.GhanFactor.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("menu = %+v", menu)
	}
	if menu.Kitchen == nil || menu.Recipe == nil || menu.Recipe.Name != "Poha" {
		t.Fatalf("menu associations not loaded: %+v", menu)
	}
	if len(menu.Ingredients) != 3 || len(menu.Groups) != 1 {
		t.Fatalf("menu has %d ingredients and %d groups, want 3 and 1", len(menu.Ingredients), len(menu.Groups))
	}
	for _, ing := range menu.Ingredients {
		if ing.MenuID == nil || *ing.MenuID != menu.ID || ing.RecipeID != nil {
			t.Fatalf("copied ingredient owner = recipe %v menu %v", ing.RecipeID, ing.MenuID)
		}
	}
	if onion := menu.Ingredients[2]; onion.GroupID == nil || *onion.GroupID != menu.Groups[0].ID {
		t.Fatalf("copied Onion group = %v, want menu group %d", onion.GroupID, menu.Groups[0].ID)
	}

	var recipeIngredients int64
	db.Model(&models.Ingredient{}).Where("recipe_id = ?", f.poha.ID).Count(&recipeIngredients)
	if recipeIngredients != 3 {
		t.Fatalf("recipe ingredients = %d, want 3 untouched", recipeIngredients)
	}
}

func TestPlanWithOverrideLines(t *testing.T) {
	ctx := context.Background()
	db := newPlanningTestDB(t)
	f := seedFixture(t, db)

	lines, _ := importer.ParseLines("Poha, 5, kg")
	menu, err := Plan(ctx, db, Input{
		Date:       time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		KitchenID:  f.annexe.ID,
		MealType:   models.MealTypeSnacks,
		RecipeID:   f.poha.ID,
		Servings:   90,
		GhanFactor: decimal.NewFromFloat(1.5),
		Lines:      lines,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(menu.Ingredients) != 1 || !menu.Ingredients[0].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("menu ingredients = %+v", menu.Ingredients)
	}
	if menu.Servings != 90 || !menu.GhanFactor.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("menu servings/ghan = %d/%s", menu.Servings, menu.GhanFactor)
	}
}

func TestPlanValidation(t *testing.T) {
	ctx := context.Background()
	db := newPlanningTestDB(t)
	f := seedFixture(t, db)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"missing date", Input{KitchenID: f.central.ID, MealType: "lunch", RecipeID: f.poha.ID}, ErrInvalidDate},
		{"bad meal type", Input{Date: date, KitchenID: f.central.ID, MealType: "brunch", RecipeID: f.poha.ID}, ErrInvalidMealType},
		{"unknown kitchen", Input{Date: date, KitchenID: 999, MealType: "lunch", RecipeID: f.poha.ID}, ErrKitchenNotFound},
		{"unknown recipe", Input{Date: date, KitchenID: f.central.ID, MealType: "lunch", RecipeID: 999}, ErrRecipeNotFound},
		{"negative ghan", Input{Date: date, KitchenID: f.central.ID, MealType: "lunch", RecipeID: f.poha.ID, GhanFactor: decimal.NewFromInt(-1)}, ErrInvalidGhan},
		{"negative servings", Input{Date: date, KitchenID: f.central.ID, MealType: "lunch", RecipeID: f.poha.ID, Servings: -5}, ErrInvalidServings},
	}

	for _, tt := range tests {
		if _, err := Plan(ctx, db, tt.in); !errors.Is(err, tt.want) {
			t.Fatalf("%s: Plan() error = %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, err := Plan(ctx, nil, Input{}); !errors.Is(err, gorm.ErrInvalidDB) {
		t.Fatalf("Plan(nil db) error = %v, want gorm.ErrInvalidDB", err)
	}
}

func TestFindFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	db := newPlanningTestDB(t)
	f := seedFixture(t, db)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	plan := func(date time.Time, kitchen models.Kitchen, mealType string) {
		t.Helper()
		if _, err := Plan(ctx, db, Input{Date: date, KitchenID: kitchen.ID, MealType: mealType, RecipeID: f.poha.ID}); err != nil {
			t.Fatalf("Plan(%s, %s) error = %v", kitchen.Name, mealType, err)
		}
	}
	plan(today, f.central, models.MealTypeDinner)
	plan(today, f.central, models.MealTypeBreakfast)
	plan(today, f.annexe, models.MealTypeLunch)
	plan(today.AddDate(0, 0, 1), f.central, models.MealTypeLunch)

	menus, err := Find(ctx, db, Filter{Date: today})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	var got []string
	for _, menu := range menus {
		got = append(got, menu.Kitchen.Name+"/"+menu.MealType)
	}
	want := []string{"Annexe/lunch", "Central Kitchen/breakfast", "Central Kitchen/dinner"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("Find() order = %v, want %v", got, want)
	}

	filtered, err := Find(ctx, db, Filter{Date: today, KitchenIDs: []uint{f.central.ID}, MealTypes: []string{models.MealTypeDinner}})
	if err != nil {
		t.Fatalf("Find(filtered) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].MealType != models.MealTypeDinner {
		t.Fatalf("Find(filtered) = %+v", filtered)
	}

	if _, err := Find(ctx, db, Filter{}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Find(no date) error = %v, want ErrInvalidDate", err)
	}
}

func TestDeleteRemovesOwnedRows(t *testing.T) {
	ctx := context.Background()
	db := newPlanningTestDB(t)
	f := seedFixture(t, db)

	menu, err := Plan(ctx, db, Input{Date: time.Now(), KitchenID: f.central.ID, MealType: "lunch", RecipeID: f.poha.ID})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if err := Delete(ctx, db, menu.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int64
	db.Model(&models.Ingredient{}).Where("menu_id = ?", menu.ID).Count(&count)
	if count != 0 {
		t.Fatalf("menu ingredients = %d, want 0", count)
	}
	if _, err := Load(ctx, db, menu.ID); !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("Load(deleted) error = %v, want ErrMenuNotFound", err)
	}
	if err := Delete(ctx, db, menu.ID); !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("Delete(again) error = %v, want ErrMenuNotFound", err)
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	got, err := ParseDay("2026-10-19")
	if err != nil || FormatDay(got) != "2026-10-19" {
		t.Fatalf("ParseDay() = %s, %v", got, err)
	}
	if _, err := ParseDay("19/10/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("ParseDay(bad) error = %v, want ErrInvalidDate", err)
	}
}

package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kitchenops/models"
)

func TestFromMenu(t *testing.T) {
	t.Parallel()

	recipe := &models.Recipe{Name: "Sambar", Servings: 20}
	recipe.ID = 4
	kitchen := &models.Kitchen{Name: "Central"}
	kitchen.ID = 2
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	menu := models.Menu{
		Date:       date,
		KitchenID:  kitchen.ID,
		Kitchen:    kitchen,
		MealType:   models.MealTypeLunch,
		RecipeID:   &recipe.ID,
		Recipe:     recipe,
		Servings:   120,
		GhanFactor: decimal.NewFromInt(3),
		Ingredients: []models.Ingredient{
			ingredient(t, 1, "Toor dal", "2", "kg", nil),
		},
	}
	menu.ID = 11

	got, err := FromMenu(menu)
	if err != nil {
		t.Fatalf("FromMenu() error = %v", err)
	}
	if got.MenuID != 11 || got.Kitchen != "Central" || got.Recipe.Name != "Sambar" || got.Servings != 120 {
		t.Fatalf("FromMenu() = %+v", got)
	}
	if !got.Date.Equal(date) || !got.Scale().Equal(decimal.NewFromInt(3)) || len(got.Ingredients) != 1 {
		t.Fatalf("FromMenu() = %+v", got)
	}
}

func TestFromMenuRejectsMalformedRecords(t *testing.T) {
	t.Parallel()

	kitchen := &models.Kitchen{Name: "Central"}
	recipe := &models.Recipe{Name: "Rasam"}

	tests := []struct {
		name string
		menu models.Menu
		want error
	}{
		{name: "missing recipe", menu: models.Menu{Kitchen: kitchen}, want: ErrMissingRecipe},
		{name: "missing kitchen", menu: models.Menu{Recipe: recipe}, want: ErrMissingKitchen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := FromMenu(tt.menu); !errors.Is(err, tt.want) {
				t.Fatalf("FromMenu() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromMenusFailsFast(t *testing.T) {
	t.Parallel()

	kitchen := &models.Kitchen{Name: "Central"}
	good := models.Menu{Kitchen: kitchen, Recipe: &models.Recipe{Name: "Idli"}}
	bad := models.Menu{Kitchen: kitchen}
	bad.ID = 42

	meals, err := FromMenus([]models.Menu{good, bad, good})
	if !errors.Is(err, ErrMissingRecipe) {
		t.Fatalf("FromMenus() error = %v, want ErrMissingRecipe", err)
	}
	if meals != nil {
		t.Fatalf("FromMenus() meals = %v, want nil", meals)
	}

	meals, err = FromMenus([]models.Menu{good, good})
	if err != nil || len(meals) != 2 {
		t.Fatalf("FromMenus() = %d meals, %v; want 2, nil", len(meals), err)
	}
}

func TestPlannedMealScaleDefaultsToOne(t *testing.T) {
	t.Parallel()

	for _, factor := range []decimal.Decimal{{}, decimal.NewFromInt(-2)} {
		if got := (PlannedMeal{GhanFactor: factor}).Scale(); !got.Equal(decimal.NewFromInt(1)) {
			t.Fatalf("Scale() with factor %s = %s, want 1", factor, got)
		}
	}
}

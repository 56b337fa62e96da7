package pages

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/reports"
	"kitchenops/internal/views/components"
	"kitchenops/models"
)

// KitchenDay groups one kitchen's planned meals for the dashboard.
type KitchenDay struct {
	Name     string
	Meals    []components.MealRow
	Servings int
	Cost     decimal.Decimal
}

// WorkspaceSnapshot aggregates the relational data required to render the workspace.
type WorkspaceSnapshot struct {
	Date      time.Time
	UserName  string
	Theme     string
	Currency  string
	Recipes   []models.Recipe
	Kitchens  []models.Kitchen
	Days      []KitchenDay
	Meals     int
	Servings  int
	Cost      decimal.Decimal
	Malformed int
}

// NewWorkspaceSnapshot sorts the collections and costs every planned meal. Menus whose recipe
// or kitchen is gone are counted in Malformed and left off the board.
func NewWorkspaceSnapshot(day time.Time, menus []models.Menu, recipes []models.Recipe, kitchens []models.Kitchen, theme, currency string) WorkspaceSnapshot {
	sort.SliceStable(recipes, func(i, j int) bool {
		return strings.ToLower(recipes[i].Name) < strings.ToLower(recipes[j].Name)
	})
	sort.SliceStable(kitchens, func(i, j int) bool {
		return kitchens[i].Name < kitchens[j].Name
	})

	snapshot := WorkspaceSnapshot{
		Date:     day,
		Theme:    models.NormalizeTheme(theme),
		Currency: currency,
		Recipes:  recipes,
		Kitchens: kitchens,
	}

	positions := make(map[string]int)
	for _, menu := range menus {
		meal, err := aggregate.FromMenu(menu)
		if err != nil {
			snapshot.Malformed++
			continue
		}

		cost := aggregate.CombinedTotals(aggregate.Combine([]aggregate.PlannedMeal{meal})).Cost
		pos, ok := positions[meal.Kitchen]
		if !ok {
			pos = len(snapshot.Days)
			positions[meal.Kitchen] = pos
			snapshot.Days = append(snapshot.Days, KitchenDay{Name: meal.Kitchen})
		}

		kitchenDay := &snapshot.Days[pos]
		kitchenDay.Meals = append(kitchenDay.Meals, components.MealRow{
			Kitchen:  meal.Kitchen,
			MealType: MealTypeLabel(meal.MealType),
			Recipe:   meal.Recipe.Name,
			Servings: meal.Servings,
			Ghan:     meal.Scale().String(),
			Cost:     reports.FormatCurrency(cost, currency),
		})
		kitchenDay.Servings += meal.Servings
		kitchenDay.Cost = kitchenDay.Cost.Add(cost)

		snapshot.Meals++
		snapshot.Servings += meal.Servings
		snapshot.Cost = snapshot.Cost.Add(cost)
	}

	sort.SliceStable(snapshot.Days, func(i, j int) bool {
		return snapshot.Days[i].Name < snapshot.Days[j].Name
	})
	return snapshot
}

// EmptyWorkspaceSnapshot returns a zero-value snapshot to simplify call sites when no data is available.
func EmptyWorkspaceSnapshot() WorkspaceSnapshot {
	return WorkspaceSnapshot{Theme: models.DefaultTheme}
}

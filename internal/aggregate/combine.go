package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Source records one contribution to a combined ingredient.
type Source struct {
	Kitchen  string
	MealType string
	Recipe   string
	Quantity decimal.Decimal
	Servings int
}

// CombinedIngredient is the total of every contribution sharing a name and unit.
type CombinedIngredient struct {
	Name          string
	Unit          string
	TotalQuantity decimal.Decimal
	TotalCost     decimal.Decimal
	Sources       []Source
}

type mergeKey struct {
	name string
	unit string
}

// Combine merges the ingredients of meals by exact (name, unit). Matching is case sensitive
// and no unit conversion happens, so "1 kg" and "1000 g" stay separate. Each meal's ghan
// factor is applied once to its quantities. Every contribution adds its own Source row.
//
// Combine does not filter: callers wanting per-meal-type or per-kitchen totals pass each
// subset separately. The result is sorted by name, then unit.
func Combine(meals []PlannedMeal) []CombinedIngredient {
	combined := make([]CombinedIngredient, 0)
	positions := make(map[mergeKey]int)

	for _, meal := range meals {
		for _, ingredient := range meal.ScaledIngredients() {
			key := mergeKey{name: ingredient.Name, unit: ingredient.Unit}
			pos, ok := positions[key]
			if !ok {
				pos = len(combined)
				positions[key] = pos
				combined = append(combined, CombinedIngredient{
					Name:          ingredient.Name,
					Unit:          ingredient.Unit,
					TotalQuantity: decimal.Zero,
					TotalCost:     decimal.Zero,
				})
			}

			quantity := ingredient.Quantity
			entry := &combined[pos]
			entry.TotalQuantity = entry.TotalQuantity.Add(quantity)
			entry.TotalCost = entry.TotalCost.Add(lineCost(quantity, ingredient.CostPerUnit))
			entry.Sources = append(entry.Sources, Source{
				Kitchen:  meal.Kitchen,
				MealType: meal.MealType,
				Recipe:   meal.Recipe.Name,
				Quantity: quantity,
				Servings: meal.Servings,
			})
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].Name != combined[j].Name {
			return combined[i].Name < combined[j].Name
		}
		return combined[i].Unit < combined[j].Unit
	})

	return combined
}

// CombinedTotals sums the combined quantities and costs. Quantities of different units are
// added as plain numbers.
func CombinedTotals(items []CombinedIngredient) Totals {
	totals := Totals{Quantity: decimal.Zero, Cost: decimal.Zero}
	for _, item := range items {
		totals.Quantity = totals.Quantity.Add(item.TotalQuantity)
		totals.Cost = totals.Cost.Add(item.TotalCost)
	}
	return totals
}

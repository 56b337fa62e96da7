package reports

import (
	"sort"

	"kitchenops/internal/aggregate"
	"kitchenops/models"
)

const (
	allKitchensLabel = "All kitchens"
	allMealsLabel    = "All meals"
)

// Scope is a subset of planned meals that is combined into one report section. An empty
// Kitchen or MealType means that dimension was combined.
type Scope struct {
	Kitchen  string
	MealType string
	Meals    []aggregate.PlannedMeal
}

// Title names the scope for display.
func (s Scope) Title() string {
	kitchen := s.Kitchen
	if kitchen == "" {
		kitchen = allKitchensLabel
	}
	meal := allMealsLabel
	if s.MealType != "" {
		meal = mealTypeLabel(s.MealType)
	}
	return kitchen + " - " + meal
}

type scopeKey struct {
	kitchen  string
	mealType string
}

// Partition splits meals into the scopes a report combines. With both flags set everything
// lands in one scope; with neither there is one scope per kitchen and meal type. Scopes are
// ordered by kitchen name and then by meal type through the day. Meal order inside a scope
// follows the input.
func Partition(meals []aggregate.PlannedMeal, combineMealTypes, combineKitchens bool) []Scope {
	var scopes []Scope
	positions := make(map[scopeKey]int)

	for _, meal := range meals {
		key := scopeKey{kitchen: meal.Kitchen, mealType: meal.MealType}
		if combineKitchens {
			key.kitchen = ""
		}
		if combineMealTypes {
			key.mealType = ""
		}

		pos, ok := positions[key]
		if !ok {
			pos = len(scopes)
			positions[key] = pos
			scopes = append(scopes, Scope{Kitchen: key.kitchen, MealType: key.mealType})
		}
		scopes[pos].Meals = append(scopes[pos].Meals, meal)
	}

	sort.SliceStable(scopes, func(i, j int) bool {
		if scopes[i].Kitchen != scopes[j].Kitchen {
			return scopes[i].Kitchen < scopes[j].Kitchen
		}
		return models.MealTypeRank(scopes[i].MealType) < models.MealTypeRank(scopes[j].MealType)
	})

	return scopes
}

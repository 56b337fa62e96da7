package reports

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"kitchenops/internal/aggregate"
)

func TestPartition(t *testing.T) {
	t.Parallel()

	meals := []aggregate.PlannedMeal{
		plannedMeal(1, "Poha", "Central Kitchen", "breakfast", 60),
		plannedMeal(2, "Dal", "Annexe", "lunch", 40),
		plannedMeal(3, "Rice", "Central Kitchen", "dinner", 50),
		plannedMeal(4, "Upma", "Annexe", "breakfast", 30),
		plannedMeal(5, "Chai", "Central Kitchen", "breakfast", 80),
	}

	tests := []struct {
		name             string
		combineMealTypes bool
		combineKitchens  bool
		want             []string
		wantRecipes      [][]string
	}{
		{
			name: "per kitchen and meal type",
			want: []string{
				"Annexe - Breakfast",
				"Annexe - Lunch",
				"Central Kitchen - Breakfast",
				"Central Kitchen - Dinner",
			},
			wantRecipes: [][]string{{"Upma"}, {"Dal"}, {"Poha", "Chai"}, {"Rice"}},
		},
		{
			name:             "meal types combined",
			combineMealTypes: true,
			want:             []string{"Annexe - All meals", "Central Kitchen - All meals"},
			wantRecipes:      [][]string{{"Dal", "Upma"}, {"Poha", "Rice", "Chai"}},
		},
		{
			name:            "kitchens combined",
			combineKitchens: true,
			want:            []string{"All kitchens - Breakfast", "All kitchens - Lunch", "All kitchens - Dinner"},
			wantRecipes:     [][]string{{"Poha", "Upma", "Chai"}, {"Dal"}, {"Rice"}},
		},
		{
			name:             "everything combined",
			combineMealTypes: true,
			combineKitchens:  true,
			want:             []string{"All kitchens - All meals"},
			wantRecipes:      [][]string{{"Poha", "Dal", "Rice", "Upma", "Chai"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scopes := Partition(meals, tt.combineMealTypes, tt.combineKitchens)

			var titles []string
			var recipes [][]string
			for _, scope := range scopes {
				titles = append(titles, scope.Title())
				var names []string
				for _, meal := range scope.Meals {
					names = append(names, meal.Recipe.Name)
				}
				recipes = append(recipes, names)
			}

			if diff := cmp.Diff(tt.want, titles); diff != "" {
				t.Fatalf("Partition() titles mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRecipes, recipes); diff != "" {
				t.Fatalf("Partition() meals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartitionEmpty(t *testing.T) {
	t.Parallel()

	if scopes := Partition(nil, false, false); len(scopes) != 0 {
		t.Fatalf("Partition(nil) = %v, want empty", scopes)
	}
}

package pages

import (
	"net/http"
	"strings"

	"kitchenops/models"
)

// RecipeFilters capture the client-driven state for recipe lookups.
type RecipeFilters struct {
	Query    string
	Category string
}

// RecipeFiltersFromRequest extracts filter inputs from an HTTP request.
func RecipeFiltersFromRequest(r *http.Request) RecipeFilters {
	filters := RecipeFilters{}
	if err := r.ParseForm(); err != nil {
		return filters
	}
	filters.Query = strings.TrimSpace(r.FormValue("q"))
	filters.Category = strings.TrimSpace(r.FormValue("category"))
	return filters
}

// FilterRecipes applies the provided filters to a list of recipes.
func FilterRecipes(all []models.Recipe, filters RecipeFilters) []models.Recipe {
	if filters.Query == "" && filters.Category == "" {
		return all
	}
	query := strings.ToLower(filters.Query)
	filtered := make([]models.Recipe, 0, len(all))
	for _, recipe := range all {
		if filters.Category != "" && !strings.EqualFold(recipe.Category, filters.Category) {
			continue
		}
		if query != "" && !containsFold(recipe.Name, query) && !containsFold(recipe.Description, query) {
			continue
		}
		filtered = append(filtered, recipe)
	}
	return filtered
}

// FindRecipe returns the recipe matching the requested identifier.
func FindRecipe(all []models.Recipe, id uint) *models.Recipe {
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	return nil
}

func containsFold(value, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(value), lowerQuery)
}

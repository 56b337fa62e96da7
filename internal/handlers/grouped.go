package handlers

import (
	"github.com/shopspring/decimal"

	"kitchenops/internal/aggregate"
	"kitchenops/models"
)

type ingredientResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	CostPerUnit *float64 `json:"cost_per_unit"`
	LineCost    float64  `json:"line_cost"`
	Position    int      `json:"position"`
	GroupID     *uint    `json:"group_id"`
	RecipeID    *uint    `json:"recipe_id,omitempty"`
	MenuID      *uint    `json:"menu_id,omitempty"`
}

type groupResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	RecipeID  *uint  `json:"recipe_id,omitempty"`
	MenuID    *uint  `json:"menu_id,omitempty"`
}

type bucketResponse struct {
	Group         string               `json:"group"`
	GroupID       *uint                `json:"group_id"`
	Name          string               `json:"name"`
	SortOrder     int                  `json:"sort_order"`
	Ingredients   []ingredientResponse `json:"ingredients"`
	TotalQuantity float64              `json:"total_quantity"`
	TotalCost     float64              `json:"total_cost"`
}

type groupedResponse struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Servings       int              `json:"servings"`
	GhanFactor     float64          `json:"ghan_factor,omitempty"`
	Buckets        []bucketResponse `json:"buckets"`
	TotalQuantity  float64          `json:"total_quantity"`
	TotalCost      float64          `json:"total_cost"`
	CostPerServing float64          `json:"cost_per_serving"`
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	response := ingredientResponse{
		ID:       ingredient.ID,
		Name:     ingredient.Name,
		Quantity: ingredient.Quantity.InexactFloat64(),
		Unit:     ingredient.Unit,
		Position: ingredient.Position,
		GroupID:  ingredient.GroupID,
		RecipeID: ingredient.RecipeID,
		MenuID:   ingredient.MenuID,
	}
	if ingredient.CostPerUnit.Valid {
		cost := ingredient.CostPerUnit.Decimal.InexactFloat64()
		response.CostPerUnit = &cost
	}
	response.LineCost = money(aggregate.Sum([]models.Ingredient{ingredient}).Cost)
	return response
}

func projectIngredients(ingredients []models.Ingredient) []ingredientResponse {
	responses := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, projectIngredient(ingredient))
	}
	return responses
}

func projectGroup(group models.IngredientGroup) groupResponse {
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		SortOrder: group.SortOrder,
		RecipeID:  group.RecipeID,
		MenuID:    group.MenuID,
	}
}

func projectGroups(groups []models.IngredientGroup) []groupResponse {
	responses := make([]groupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, projectGroup(group))
	}
	return responses
}

// projectGrouped renders buckets with per-bucket totals, the overall total and the cost per
// serving.
func projectGrouped(id uint, name string, servings int, buckets aggregate.Buckets) groupedResponse {
	response := groupedResponse{
		ID:       id,
		Name:     name,
		Servings: servings,
		Buckets:  make([]bucketResponse, 0, len(buckets)),
	}
	for _, bucket := range buckets {
		totals := aggregate.Sum(bucket.Ingredients)
		response.Buckets = append(response.Buckets, bucketResponse{
			Group:         bucket.Ref.String(),
			GroupID:       bucket.Ref.Pointer(),
			Name:          bucket.Name,
			SortOrder:     bucket.SortOrder,
			Ingredients:   projectIngredients(bucket.Ingredients),
			TotalQuantity: totals.Quantity.InexactFloat64(),
			TotalCost:     money(totals.Cost),
		})
	}

	total := aggregate.SumBuckets(buckets)
	response.TotalQuantity = total.Quantity.InexactFloat64()
	response.TotalCost = money(total.Cost)
	response.CostPerServing = money(total.PerServing(servings))
	return response
}

func money(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

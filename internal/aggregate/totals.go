package aggregate

import (
	"github.com/shopspring/decimal"

	"kitchenops/models"
)

// Totals holds summed quantity and cost for a set of ingredients.
type Totals struct {
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// Add returns the element-wise sum of t and other.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Quantity: t.Quantity.Add(other.Quantity),
		Cost:     t.Cost.Add(other.Cost),
	}
}

// PerServing divides the cost by servings, returning zero when servings is not positive.
func (t Totals) PerServing(servings int) decimal.Decimal {
	if servings <= 0 {
		return decimal.Zero
	}
	return t.Cost.Div(decimal.NewFromInt(int64(servings)))
}

// Sum totals quantity and cost for ingredients. A missing cost per unit counts as zero while
// the quantity is still added. Signs are not checked.
func Sum(ingredients []models.Ingredient) Totals {
	totals := Totals{Quantity: decimal.Zero, Cost: decimal.Zero}
	for _, ingredient := range ingredients {
		totals.Quantity = totals.Quantity.Add(ingredient.Quantity)
		totals.Cost = totals.Cost.Add(lineCost(ingredient.Quantity, ingredient.CostPerUnit))
	}
	return totals
}

// SumBuckets totals every bucket.
func SumBuckets(buckets Buckets) Totals {
	totals := Totals{Quantity: decimal.Zero, Cost: decimal.Zero}
	for _, bucket := range buckets {
		totals = totals.Add(Sum(bucket.Ingredients))
	}
	return totals
}

func lineCost(quantity decimal.Decimal, costPerUnit decimal.NullDecimal) decimal.Decimal {
	if !costPerUnit.Valid {
		return decimal.Zero
	}
	return quantity.Mul(costPerUnit.Decimal)
}

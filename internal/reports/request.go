// Package reports builds combined-ingredient and recipe reports for a day of planned meals
// and renders them as JSON, CSV, Excel, HTML or PDF.
package reports

import (
	"strings"
	"time"

	"kitchenops/internal/planning"
	"kitchenops/internal/validation"
	"kitchenops/models"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// Delivery modes.
const (
	DeliverInline = "inline"
	DeliverLink   = "link"
)

// Request is the payload of a report endpoint.
type Request struct {
	Date             string   `json:"date" validate:"required,datetime=2006-01-02"`
	KitchenIDs       []uint   `json:"kitchen_ids" validate:"dive,gt=0"`
	MealTypes        []string `json:"meal_types" validate:"dive,mealtype"`
	CombineMealTypes bool     `json:"combine_meal_types"`
	CombineKitchens  bool     `json:"combine_kitchens"`
	Format           string   `json:"format" validate:"oneof=json csv xlsx pdf html"`
	IncludeRecipes   bool     `json:"include_recipes"`
	Deliver          string   `json:"deliver" validate:"oneof=inline link"`
}

// Normalize fills defaults and canonicalises casing. It is called by Validate. MealTypes is
// replaced by a new slice so a caller's form values stay untouched.
func (r *Request) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = FormatJSON
	}
	r.Deliver = strings.ToLower(strings.TrimSpace(r.Deliver))
	if r.Deliver == "" {
		r.Deliver = DeliverInline
	}
	if r.MealTypes != nil {
		mealTypes := make([]string, len(r.MealTypes))
		for i, mealType := range r.MealTypes {
			mealTypes[i] = strings.ToLower(strings.TrimSpace(mealType))
		}
		r.MealTypes = mealTypes
	}
}

// Validate normalizes r and checks it, returning the parsed report date.
func (r *Request) Validate() (time.Time, error) {
	r.Normalize()
	if err := validation.Struct(r); err != nil {
		return time.Time{}, err
	}
	return planning.ParseDay(r.Date)
}

// Filter converts the request into a menu filter for day.
func (r Request) Filter(day time.Time) planning.Filter {
	return planning.Filter{Date: day, KitchenIDs: r.KitchenIDs, MealTypes: r.MealTypes}
}

func mealTypeLabel(mealType string) string {
	if !models.ValidMealType(mealType) {
		return mealType
	}
	return strings.ToUpper(mealType[:1]) + mealType[1:]
}

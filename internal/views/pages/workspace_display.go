package pages

import (
	"strings"
	"time"

	"kitchenops/models"
)

// DefaultDash returns a dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// MealTypeLabel capitalises a known meal type.
func MealTypeLabel(mealType string) string {
	if !models.ValidMealType(mealType) {
		return DefaultDash(mealType)
	}
	return strings.ToUpper(mealType[:1]) + mealType[1:]
}

// DisplayDate renders day for headings.
func DisplayDate(day time.Time) string {
	if day.IsZero() {
		return "-"
	}
	return day.Format("Monday, 2 January 2006")
}

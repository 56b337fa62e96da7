package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"kitchenops/internal/aggregate"
)

var csvHeader = []string{"Section", "Kitchen", "Meal Type", "Ingredient", "Unit", "Total Quantity", "Total Cost", "Sources"}

// WriteCSV writes one row per combined ingredient. Numbers are plain decimals so the file
// opens cleanly in spreadsheets; combined dimensions are left blank.
func WriteCSV(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, section := range report.Sections {
		for _, item := range section.Ingredients {
			record := []string{
				section.Title,
				section.Kitchen,
				section.MealType,
				item.Name,
				item.Unit,
				item.TotalQuantity.String(),
				item.TotalCost.StringFixed(2),
				describeSources(item.Sources),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func describeSources(sources []aggregate.Source) string {
	parts := make([]string, 0, len(sources))
	for _, source := range sources {
		parts = append(parts, fmt.Sprintf("%s/%s/%s: %s", source.Kitchen, source.MealType, source.Recipe, source.Quantity.String()))
	}
	return strings.Join(parts, "; ")
}

package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitchenops/internal/aggregate"
	applog "kitchenops/internal/log"
	"kitchenops/internal/planning"
)

var (
	ErrNoMenus = errors.New("reports: no meals planned for the selection")

	nowFunc = time.Now
)

// Section is one combined scope of a report.
type Section struct {
	Title       string
	Kitchen     string
	MealType    string
	Meals       int
	Servings    int
	Ingredients []aggregate.CombinedIngredient
	Totals      aggregate.Totals
}

// Report is a built ingredients report.
type Report struct {
	Date        time.Time
	GeneratedAt time.Time
	Sections    []Section
	Recipes     []aggregate.RecipeAttachment
	GrandTotal  aggregate.Totals
	Servings    int
}

// Options controls how a report is assembled from meals.
type Options struct {
	CombineMealTypes bool
	CombineKitchens  bool
	IncludeRecipes   bool
}

// Options extracts the assembly options from the request.
func (r Request) Options() Options {
	return Options{
		CombineMealTypes: r.CombineMealTypes,
		CombineKitchens:  r.CombineKitchens,
		IncludeRecipes:   r.IncludeRecipes,
	}
}

// Build validates req in place, filling its defaults, then loads the menus it selects and
// assembles the report. A planned meal whose recipe or kitchen is missing aborts the build.
func Build(ctx context.Context, db *gorm.DB, req *Request) (Report, error) {
	if db == nil {
		return Report{}, gorm.ErrInvalidDB
	}
	day, err := req.Validate()
	if err != nil {
		return Report{}, err
	}

	menus, err := planning.Find(ctx, db, req.Filter(day))
	if err != nil {
		return Report{}, fmt.Errorf("load menus: %w", err)
	}
	if len(menus) == 0 {
		return Report{}, ErrNoMenus
	}

	meals, err := aggregate.FromMenus(menus)
	if err != nil {
		return Report{}, err
	}

	report := Assemble(day, meals, req.Options())
	applog.Debug(ctx, "report assembled",
		"date", planning.FormatDay(day),
		"sections", len(report.Sections),
		"recipes", len(report.Recipes),
	)
	return report, nil
}

// Assemble partitions meals, combines each scope and totals the result.
func Assemble(day time.Time, meals []aggregate.PlannedMeal, opts Options) Report {
	report := Report{
		Date:        day,
		GeneratedAt: nowFunc().UTC(),
		Sections:    []Section{},
	}

	for _, scope := range Partition(meals, opts.CombineMealTypes, opts.CombineKitchens) {
		combined := aggregate.Combine(scope.Meals)
		section := Section{
			Title:       scope.Title(),
			Kitchen:     scope.Kitchen,
			MealType:    scope.MealType,
			Meals:       len(scope.Meals),
			Ingredients: combined,
			Totals:      aggregate.CombinedTotals(combined),
		}
		for _, meal := range scope.Meals {
			section.Servings += meal.Servings
		}
		report.Sections = append(report.Sections, section)
		report.GrandTotal = report.GrandTotal.Add(section.Totals)
		report.Servings += section.Servings
	}

	if opts.IncludeRecipes {
		report.Recipes = aggregate.DistinctRecipes(meals)
	}
	return report
}

// CostPerServing divides the grand total cost across all planned servings.
func (r Report) CostPerServing() decimal.Decimal {
	return r.GrandTotal.PerServing(r.Servings)
}

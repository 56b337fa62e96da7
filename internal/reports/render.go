package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/exports"
	"kitchenops/internal/planning"
)

var ErrUnsupportedFormat = errors.New("reports: unsupported format")

const (
	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeHTML = "text/html; charset=utf-8"
)

// RenderOptions carries presentation settings shared by every format.
type RenderOptions struct {
	Currency string
	PDF      PDFRenderer
}

// Render writes report in format and wraps the bytes as a downloadable artifact.
func Render(ctx context.Context, report Report, format string, opts RenderOptions) (exports.Artifact, error) {
	artifact := exports.Artifact{FileName: fileName("ingredients", report.Date, format)}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := json.NewEncoder(&buf).Encode(NewView(report, opts.Currency)); err != nil {
			return exports.Artifact{}, fmt.Errorf("encode json: %w", err)
		}
		artifact.ContentType = contentTypeJSON
	case FormatCSV:
		if err := WriteCSV(&buf, report); err != nil {
			return exports.Artifact{}, err
		}
		artifact.ContentType = contentTypeCSV
	case FormatXLSX:
		if err := WriteExcel(&buf, report, opts.Currency); err != nil {
			return exports.Artifact{}, err
		}
		artifact.ContentType = contentTypeXLSX
	case FormatHTML:
		if err := Document(report, DocumentOptions{Currency: opts.Currency}).Render(ctx, &buf); err != nil {
			return exports.Artifact{}, fmt.Errorf("render html: %w", err)
		}
		artifact.ContentType = contentTypeHTML
	case FormatPDF:
		data, err := RenderPDF(ctx, opts.PDF, Document(report, DocumentOptions{Currency: opts.Currency}))
		if err != nil {
			return exports.Artifact{}, err
		}
		buf.Write(data)
		artifact.ContentType = contentTypePDF
	default:
		return exports.Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	artifact.Data = buf.Bytes()
	return artifact, nil
}

// RenderRecipes prints the deduplicated recipes of a day as PDF, or HTML when format is html.
func RenderRecipes(ctx context.Context, day time.Time, attachments []aggregate.RecipeAttachment, format string, opts RenderOptions) (exports.Artifact, error) {
	document := RecipesDocument(day, attachments, DocumentOptions{Currency: opts.Currency})
	switch format {
	case FormatHTML:
		var buf bytes.Buffer
		if err := document.Render(ctx, &buf); err != nil {
			return exports.Artifact{}, fmt.Errorf("render html: %w", err)
		}
		return exports.Artifact{
			FileName:    fileName("recipes", day, format),
			ContentType: contentTypeHTML,
			Data:        buf.Bytes(),
		}, nil
	case FormatPDF, "":
		data, err := RenderPDF(ctx, opts.PDF, document)
		if err != nil {
			return exports.Artifact{}, err
		}
		return exports.Artifact{
			FileName:    fileName("recipes", day, FormatPDF),
			ContentType: contentTypePDF,
			Data:        data,
		}, nil
	default:
		return exports.Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func fileName(prefix string, day time.Time, format string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, planning.FormatDay(day), format)
}

// View is the JSON shape of a report.
type View struct {
	Date           string        `json:"date"`
	GeneratedAt    time.Time     `json:"generated_at"`
	Currency       string        `json:"currency"`
	Servings       int           `json:"servings"`
	GrandTotal     float64       `json:"grand_total"`
	CostPerServing float64       `json:"cost_per_serving"`
	Sections       []SectionView `json:"sections"`
	Recipes        []RecipeView  `json:"recipes,omitempty"`
}

type SectionView struct {
	Title       string           `json:"title"`
	Kitchen     string           `json:"kitchen,omitempty"`
	MealType    string           `json:"meal_type,omitempty"`
	Meals       int              `json:"meals"`
	Servings    int              `json:"servings"`
	TotalCost   float64          `json:"total_cost"`
	Ingredients []IngredientView `json:"ingredients"`
}

type IngredientView struct {
	Name          string       `json:"name"`
	Unit          string       `json:"unit"`
	TotalQuantity float64      `json:"total_quantity"`
	TotalCost     float64      `json:"total_cost"`
	Sources       []SourceView `json:"sources"`
}

type SourceView struct {
	Kitchen  string  `json:"kitchen"`
	MealType string  `json:"meal_type"`
	Recipe   string  `json:"recipe"`
	Quantity float64 `json:"quantity"`
	Servings int     `json:"servings"`
}

type RecipeView struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Kitchen    string  `json:"kitchen"`
	MealType   string  `json:"meal_type"`
	Servings   int     `json:"servings"`
	GhanFactor float64 `json:"ghan_factor"`
	TotalCost  float64 `json:"total_cost"`
}

// NewView projects report into its JSON shape.
func NewView(report Report, currency string) View {
	view := View{
		Date:           planning.FormatDay(report.Date),
		GeneratedAt:    report.GeneratedAt,
		Currency:       currency,
		Servings:       report.Servings,
		GrandTotal:     money(report.GrandTotal.Cost),
		CostPerServing: money(report.CostPerServing()),
		Sections:       make([]SectionView, 0, len(report.Sections)),
	}

	for _, section := range report.Sections {
		sv := SectionView{
			Title:       section.Title,
			Kitchen:     section.Kitchen,
			MealType:    section.MealType,
			Meals:       section.Meals,
			Servings:    section.Servings,
			TotalCost:   money(section.Totals.Cost),
			Ingredients: make([]IngredientView, 0, len(section.Ingredients)),
		}
		for _, item := range section.Ingredients {
			iv := IngredientView{
				Name:          item.Name,
				Unit:          item.Unit,
				TotalQuantity: item.TotalQuantity.InexactFloat64(),
				TotalCost:     money(item.TotalCost),
				Sources:       make([]SourceView, 0, len(item.Sources)),
			}
			for _, source := range item.Sources {
				iv.Sources = append(iv.Sources, SourceView{
					Kitchen:  source.Kitchen,
					MealType: source.MealType,
					Recipe:   source.Recipe,
					Quantity: source.Quantity.InexactFloat64(),
					Servings: source.Servings,
				})
			}
			sv.Ingredients = append(sv.Ingredients, iv)
		}
		view.Sections = append(view.Sections, sv)
	}

	for _, attachment := range report.Recipes {
		view.Recipes = append(view.Recipes, RecipeView{
			ID:         attachment.Recipe.ID,
			Name:       attachment.Recipe.Name,
			Kitchen:    attachment.Kitchen,
			MealType:   attachment.MealType,
			Servings:   attachment.Servings,
			GhanFactor: attachment.GhanFactor.InexactFloat64(),
			TotalCost:  money(aggregate.SumBuckets(attachment.Buckets()).Cost),
		})
	}
	return view
}

func money(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

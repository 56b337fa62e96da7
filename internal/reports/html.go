package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"kitchenops/internal/aggregate"
)

// DocumentOptions controls printable rendering.
type DocumentOptions struct {
	Currency string
	Title    string
}

const printCSS = `@page { size: A4; margin: 14mm 12mm; }
body { font-family: "Inter", "Helvetica Neue", Arial, sans-serif; color: #1c1917; font-size: 11px; }
h1 { font-size: 20px; margin: 0 0 4px; }
h2 { font-size: 14px; margin: 18px 0 6px; border-bottom: 2px solid #3f6212; padding-bottom: 3px; }
h3 { font-size: 12px; margin: 12px 0 4px; color: #3f6212; }
.meta { color: #57534e; margin-bottom: 12px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 8px; }
th { text-align: left; background: #ecfccb; font-weight: 600; }
th, td { padding: 4px 6px; border-bottom: 1px solid #e7e5e4; vertical-align: top; }
td.num, th.num { text-align: right; white-space: nowrap; }
tr.total td { font-weight: 700; border-top: 2px solid #1c1917; }
.sources { color: #78716c; font-size: 10px; }
.recipe { page-break-before: always; }
.recipe:first-of-type { page-break-before: auto; }
.instructions { white-space: pre-wrap; }`

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) element(tag, class, content string) {
	if class != "" {
		h.raw(fmt.Sprintf(`<%s class="%s">`, tag, templ.EscapeString(class)))
	} else {
		h.raw("<" + tag + ">")
	}
	h.text(content)
	h.raw("</" + tag + ">")
}

func (h *htmlWriter) open(title string) {
	h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
	h.text(title)
	h.raw(`</title><style>`)
	h.raw(printCSS)
	h.raw(`</style></head><body>`)
}

func (h *htmlWriter) close() {
	h.raw(`</body></html>`)
}

// Document renders the ingredients report as a standalone printable page.
func Document(report Report, opts DocumentOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := opts.Title
		if title == "" {
			title = "Ingredients report"
		}

		h.open(title)
		h.element("h1", "", title)
		h.element("div", "meta", fmt.Sprintf("%s · %d servings · generated %s",
			FormatReportDate(report.Date), report.Servings, report.GeneratedAt.Format(time.Kitchen)))

		for _, section := range report.Sections {
			writeSection(h, section, opts.Currency)
		}

		h.raw(`<table><tbody><tr class="total"><td>Grand total</td><td class="num">`)
		h.text(FormatCurrency(report.GrandTotal.Cost, opts.Currency))
		h.raw(`</td></tr><tr><td>Cost per serving</td><td class="num">`)
		h.text(FormatCurrency(report.CostPerServing(), opts.Currency))
		h.raw(`</td></tr></tbody></table>`)

		for _, attachment := range report.Recipes {
			writeRecipe(h, attachment, opts.Currency)
		}

		h.close()
		return h.err
	})
}

func writeSection(h *htmlWriter, section Section, currency string) {
	h.element("h2", "", section.Title)
	h.element("div", "meta", fmt.Sprintf("%d meals · %d servings", section.Meals, section.Servings))
	h.raw(`<table><thead><tr><th>Ingredient</th><th class="num">Quantity</th><th class="num">Cost</th><th>Used in</th></tr></thead><tbody>`)
	for _, item := range section.Ingredients {
		h.raw(`<tr>`)
		h.element("td", "", item.Name)
		h.element("td", "num", FormatQuantity(item.TotalQuantity, item.Unit))
		h.element("td", "num", FormatCurrency(item.TotalCost, currency))
		h.element("td", "sources", sourceSummary(item.Sources))
		h.raw(`</tr>`)
	}
	h.raw(`<tr class="total"><td>Total</td><td></td><td class="num">`)
	h.text(FormatCurrency(section.Totals.Cost, currency))
	h.raw(`</td><td></td></tr></tbody></table>`)
}

func sourceSummary(sources []aggregate.Source) string {
	parts := make([]string, 0, len(sources))
	for _, source := range sources {
		parts = append(parts, fmt.Sprintf("%s (%s, %s)", source.Recipe, source.Kitchen, mealTypeLabel(source.MealType)))
	}
	return strings.Join(parts, ", ")
}

// RecipeSheet renders one recipe with its planned ingredient list grouped for the line.
func RecipeSheet(attachment aggregate.RecipeAttachment, currency string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		writeRecipe(h, attachment, currency)
		return h.err
	})
}

// RecipesDocument renders every attachment as a printable page per recipe.
func RecipesDocument(day time.Time, attachments []aggregate.RecipeAttachment, opts DocumentOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := opts.Title
		if title == "" {
			title = "Recipes for " + FormatReportDate(day)
		}
		h.open(title)
		for _, attachment := range attachments {
			writeRecipe(h, attachment, opts.Currency)
		}
		h.close()
		return h.err
	})
}

func writeRecipe(h *htmlWriter, attachment aggregate.RecipeAttachment, currency string) {
	h.raw(`<section class="recipe">`)
	h.element("h2", "", attachment.Recipe.Name)

	meta := fmt.Sprintf("%d servings · ghan %s", attachment.Servings, attachment.GhanFactor.String())
	if attachment.Kitchen != "" {
		meta = fmt.Sprintf("%s · %s · %s", attachment.Kitchen, mealTypeLabel(attachment.MealType), meta)
	}
	h.element("div", "meta", meta)
	if attachment.Recipe.Description != "" {
		h.element("p", "", attachment.Recipe.Description)
	}

	buckets := attachment.Buckets()
	for _, bucket := range buckets {
		if len(bucket.Ingredients) == 0 {
			continue
		}
		h.element("h3", "", bucket.Name)
		h.raw(`<table><thead><tr><th>Ingredient</th><th class="num">Quantity</th><th class="num">Cost</th></tr></thead><tbody>`)
		for _, ingredient := range bucket.Ingredients {
			h.raw(`<tr>`)
			h.element("td", "", ingredient.Name)
			h.element("td", "num", FormatQuantity(ingredient.Quantity, ingredient.Unit))
			cost := "-"
			if ingredient.CostPerUnit.Valid {
				cost = FormatCurrency(ingredient.Quantity.Mul(ingredient.CostPerUnit.Decimal), currency)
			}
			h.element("td", "num", cost)
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
	}

	totals := aggregate.SumBuckets(buckets)
	h.raw(`<table><tbody><tr class="total"><td>Recipe cost</td><td class="num">`)
	h.text(FormatCurrency(totals.Cost, currency))
	h.raw(`</td></tr><tr><td>Per serving</td><td class="num">`)
	h.text(FormatCurrency(totals.PerServing(attachment.Servings), currency))
	h.raw(`</td></tr></tbody></table>`)

	if attachment.Recipe.Instructions != "" {
		h.element("h3", "", "Method")
		h.element("div", "instructions", attachment.Recipe.Instructions)
	}
	h.raw(`</section>`)
}

package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"kitchenops/internal/planning"
	"kitchenops/internal/reports"
	"kitchenops/internal/views/components"
	"kitchenops/internal/views/layout"
	"kitchenops/internal/views/theme"
	"kitchenops/models"
)

type panelWriter struct {
	w   io.Writer
	err error
}

func (p *panelWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *panelWriter) render(ctx context.Context, component templ.Component) {
	if p.err != nil {
		return
	}
	p.err = component.Render(ctx, p.w)
}

// Workspace renders the panel for section.
func Workspace(section string, snapshot WorkspaceSnapshot) templ.Component {
	section = NormalizeWorkspaceSection(section)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &panelWriter{w: w}
		p.printf(`<section data-module-key="%s">`, section)
		switch section {
		case "recipes":
			recipesPanel(ctx, p, snapshot)
		case "kitchens":
			kitchensPanel(p, snapshot)
		case "reports":
			reportsPanel(p, snapshot)
		case "preferences":
			p.render(ctx, PreferencesPanel(snapshot.Theme, ""))
		default:
			menusPanel(ctx, p, snapshot)
		}
		p.printf(`</section>`)
		return p.err
	})
}

func menusPanel(ctx context.Context, p *panelWriter, snapshot WorkspaceSnapshot) {
	p.printf(`<h1>%s</h1><div class="stats">`, templ.EscapeString(DisplayDate(snapshot.Date)))
	p.render(ctx, components.StatCard("Meals planned", fmt.Sprint(snapshot.Meals), "", ""))
	p.render(ctx, components.StatCard("Servings", fmt.Sprint(snapshot.Servings), "", ""))
	p.render(ctx, components.StatCard("Ingredient cost", reports.FormatCurrency(snapshot.Cost, snapshot.Currency), "", ""))
	p.printf(`</div>`)

	if snapshot.Malformed > 0 {
		p.render(ctx, components.Flash("warning", fmt.Sprintf("%d planned meals reference a deleted recipe or kitchen and are hidden.", snapshot.Malformed)))
	}
	if len(snapshot.Days) == 0 {
		p.render(ctx, components.MealTable(nil))
		return
	}
	for _, day := range snapshot.Days {
		p.printf(`<h2>%s <small>%d servings · %s</small></h2>`,
			templ.EscapeString(day.Name), day.Servings, templ.EscapeString(reports.FormatCurrency(day.Cost, snapshot.Currency)))
		p.render(ctx, components.MealTable(day.Meals))
	}
}

func recipesPanel(ctx context.Context, p *panelWriter, snapshot WorkspaceSnapshot) {
	p.printf(`<h1>Recipes</h1>`)
	if len(snapshot.Recipes) == 0 {
		p.printf(`<p class="empty">No recipes yet.</p>`)
		return
	}
	p.printf(`<ul class="recipe-list">`)
	for _, recipe := range snapshot.Recipes {
		p.printf(`<li><a href="/app/api/recipes/%d/grouped">%s</a> <span>%s · %d servings</span></li>`,
			recipe.ID, templ.EscapeString(recipe.Name), templ.EscapeString(DefaultDash(recipe.Category)), recipe.Servings)
	}
	p.printf(`</ul>`)
}

func kitchensPanel(p *panelWriter, snapshot WorkspaceSnapshot) {
	p.printf(`<h1>Kitchens</h1><ul class="kitchen-list">`)
	for _, kitchen := range snapshot.Kitchens {
		state := "active"
		if !kitchen.Active {
			state = "inactive"
		}
		p.printf(`<li data-state="%s">%s <span>%s</span></li>`, state, templ.EscapeString(kitchen.Name), templ.EscapeString(DefaultDash(kitchen.Location)))
	}
	p.printf(`</ul>`)
}

func reportsPanel(p *panelWriter, snapshot WorkspaceSnapshot) {
	p.printf(`<h1>Ingredient reports</h1><form method="post" action="/app/api/reports/ingredients">`)
	p.printf(`<label>Date<input type="date" name="date" value="%s" required></label>`, planning.FormatDay(snapshot.Date))
	p.printf(`<fieldset><legend>Kitchens</legend>`)
	for _, kitchen := range snapshot.Kitchens {
		p.printf(`<label><input type="checkbox" name="kitchen_ids" value="%d"> %s</label>`, kitchen.ID, templ.EscapeString(kitchen.Name))
	}
	p.printf(`</fieldset><fieldset><legend>Meals</legend>`)
	for _, mealType := range models.MealTypes() {
		p.printf(`<label><input type="checkbox" name="meal_types" value="%s"> %s</label>`, mealType, MealTypeLabel(mealType))
	}
	p.printf(`</fieldset>`)
	p.printf(`<label><input type="checkbox" name="combine_kitchens" value="true"> Combine kitchens</label>`)
	p.printf(`<label><input type="checkbox" name="combine_meal_types" value="true"> Combine meal types</label>`)
	p.printf(`<label><input type="checkbox" name="include_recipes" value="true"> Attach recipes</label>`)
	p.printf(`<label>Format<select name="format">`)
	for _, format := range []string{reports.FormatPDF, reports.FormatXLSX, reports.FormatCSV, reports.FormatHTML, reports.FormatJSON} {
		p.printf(`<option value="%s">%s</option>`, format, format)
	}
	p.printf(`</select></label><button type="submit">Download</button></form>`)
}

// PreferencesPanel renders the theme picker with an optional status line.
func PreferencesPanel(current, status string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &panelWriter{w: w}
		p.printf(`<div id="preferences"><h1>Preferences</h1><form hx-post="/app/preferences/update" hx-target="#preferences" hx-swap="outerHTML">`)
		for _, def := range layout.ThemeOptions() {
			checked := ""
			if def.ID == current {
				checked = " checked"
			}
			p.printf(`<label><input type="radio" name="theme" value="%s"%s> %s <small>%s</small></label>`,
				def.ID, checked, templ.EscapeString(def.Label), templ.EscapeString(def.Description))
		}
		p.printf(`<button type="submit">Save</button></form>`)
		p.render(ctx, components.Flash("success", status))
		p.printf(`</div>`)
		return p.err
	})
}

func sidebarFor(section string, snapshot WorkspaceSnapshot) templ.Component {
	return components.Sidebar(components.SidebarData{
		Active:   NormalizeWorkspaceSection(section),
		UserName: snapshot.UserName,
		Features: workspaceSections,
	})
}

// Dashboard renders the full workspace page.
func Dashboard(section string, snapshot WorkspaceSnapshot) templ.Component {
	def := layout.ThemeByID(theme.Resolve(snapshot.Theme).Key)
	return layout.Layout("KitchenOps", sidebarFor(section, snapshot), Workspace(section, snapshot), true, def)
}

// DashboardPartial renders only the workspace panel for HTMX navigation.
func DashboardPartial(section string, snapshot WorkspaceSnapshot) templ.Component {
	return Workspace(section, snapshot)
}

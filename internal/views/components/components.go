package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// SidebarLink is one navigation entry.
type SidebarLink struct {
	Label   string
	Path    string
	Section string
}

// SidebarData drives the workspace navigation.
type SidebarData struct {
	Active   string
	UserName string
	Features []SidebarLink
}

// MealRow is one planned meal on the dashboard.
type MealRow struct {
	Kitchen  string
	MealType string
	Recipe   string
	Servings int
	Ghan     string
	Cost     string
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}

// Sidebar renders the workspace navigation with the active section highlighted.
func Sidebar(data SidebarData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<aside class="fixed inset-y-0 w-64 border-r p-4"><div class="mb-6 font-semibold">KitchenOps</div>`)
		if data.UserName != "" {
			w.raw(`<div class="mb-4 text-sm">%s</div>`, esc(data.UserName))
		}
		w.raw(`<nav class="flex flex-col gap-1">`)
		for _, link := range data.Features {
			w.raw(`<a href="%s" hx-get="%s" hx-target="#workspace" hx-push-url="true" data-nav-section="%s" data-state="%s">%s</a>`,
				esc(link.Path), esc(link.Path), esc(link.Section), linkState(link.Section, data.Active), esc(link.Label))
		}
		w.raw(`</nav><form method="post" action="/logout" class="mt-6"><button type="submit">Sign out</button></form></aside>`)
		return w.err
	})
}

// StatCard renders a single headline figure.
func StatCard(label, value, delta, caption string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="stat-card"><div class="stat-label">%s</div><div class="stat-value">%s</div>`, esc(label), esc(value))
		if delta != "" {
			w.raw(`<div class="stat-delta">%s</div>`, esc(delta))
		}
		if caption != "" {
			w.raw(`<div class="stat-caption">%s</div>`, esc(caption))
		}
		w.raw(`</div>`)
		return w.err
	})
}

// MealTable lists planned meals.
func MealTable(rows []MealRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(rows) == 0 {
			w.raw(`<p class="empty">Nothing planned yet.</p>`)
			return w.err
		}
		w.raw(`<table class="meal-table"><thead><tr><th>Kitchen</th><th>Meal</th><th>Recipe</th><th>Servings</th><th>Ghan</th><th>Cost</th></tr></thead><tbody>`)
		for _, row := range rows {
			w.raw(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
				esc(row.Kitchen), esc(row.MealType), esc(row.Recipe), row.Servings, esc(row.Ghan), esc(row.Cost))
		}
		w.raw(`</tbody></table>`)
		return w.err
	})
}

// Flash renders a dismissable status message. Empty messages render nothing.
func Flash(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if message == "" {
			return nil
		}
		w := &writer{w: out}
		w.raw(`<div class="flash flash-%s" role="status">%s</div>`, esc(kind), esc(message))
		return w.err
	})
}

package handlers

import (
	"net/http"
	"strings"

	templpkg "github.com/a-h/templ"

	applog "kitchenops/internal/log"
	"kitchenops/internal/planning"
	"kitchenops/internal/views/pages"
	"kitchenops/models"
)

// Dashboard renders the main application workspace once a user is authenticated. /app shows
// today's planned meals and /app/{section} selects another panel.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	section := workspaceSectionFromPath(r.URL.Path)
	if section != "" && !pages.ValidWorkspaceSection(section) {
		http.NotFound(w, r)
		return
	}

	snapshot := buildWorkspaceSnapshot(r)
	if section == "recipes" {
		snapshot.Recipes = pages.FilterRecipes(snapshot.Recipes, pages.RecipeFiltersFromRequest(r))
	}

	var component templpkg.Component
	if isHTMX(r) {
		component = pages.DashboardPartial(section, snapshot)
	} else {
		component = pages.Dashboard(section, snapshot)
	}
	renderComponent(w, r, component)
}

// workspaceSectionFromPath returns the part of path below /app.
func workspaceSectionFromPath(path string) string {
	return strings.Trim(strings.TrimPrefix(path, "/app"), "/")
}

// buildWorkspaceSnapshot loads the data behind the dashboard. Load failures are logged and
// leave the affected collection empty.
func buildWorkspaceSnapshot(r *http.Request) pages.WorkspaceSnapshot {
	ctx := r.Context()
	day := planning.Day(nowFunc())
	themeKey := loadCurrentUserTheme(r)
	if database == nil {
		snapshot := pages.EmptyWorkspaceSnapshot()
		snapshot.Date = day
		snapshot.Theme = themeKey
		snapshot.Currency = reportCurrency
		return snapshot
	}

	menus, err := planning.Find(ctx, database, planning.Filter{Date: day})
	if err != nil {
		applog.Error(ctx, "failed to load planned meals", "error", err)
	}

	var recipes []models.Recipe
	if err := database.WithContext(ctx).Find(&recipes).Error; err != nil {
		applog.Error(ctx, "failed to load recipes", "error", err)
	}

	var kitchens []models.Kitchen
	if err := database.WithContext(ctx).Find(&kitchens).Error; err != nil {
		applog.Error(ctx, "failed to load kitchens", "error", err)
	}

	snapshot := pages.NewWorkspaceSnapshot(day, menus, recipes, kitchens, themeKey, reportCurrency)
	if user, err := loadCurrentUser(r); err == nil {
		snapshot.UserName = user.Name
	}
	if snapshot.Malformed > 0 {
		applog.Warn(ctx, "planned meals reference missing records", "count", snapshot.Malformed, "date", planning.FormatDay(day))
	}
	return snapshot
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templpkg.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render workspace fragment", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

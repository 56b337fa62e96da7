package server

import (
	"context"
	"net/http"

	"kitchenops/internal/handlers"
	applog "kitchenops/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	ctx := context.Background()
	applog.Debug(ctx, "registering http routes")

	public := func(path string, handler http.HandlerFunc) {
		mux.HandleFunc(path, handler)
		applog.Debug(ctx, "route registered", "path", path)
	}
	protected := func(path string, handler http.HandlerFunc) {
		mux.Handle(path, handlers.RequireAuthentication(handler))
		applog.Debug(ctx, "route registered", "path", path, "protected", true)
	}

	public("/healthz", handlers.Health)
	public("/login", handlers.Login)
	public("/signup", handlers.Signup)
	public("/logout", handlers.Logout)

	protected("/app", handlers.Dashboard)
	protected("/app/", handlers.Dashboard)
	protected("/app/preferences/update", handlers.UpdatePreferences)

	// Resource collections are registered with and without the trailing slash so that
	// /app/api/recipes does not redirect.
	for _, resource := range []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/app/api/kitchens", handlers.KitchenResource},
		{"/app/api/recipes", handlers.RecipeResource},
		{"/app/api/ingredient-groups", handlers.IngredientGroupResource},
		{"/app/api/ingredients", handlers.IngredientResource},
		{"/app/api/menus", handlers.MenuResource},
	} {
		protected(resource.path, resource.handler)
		protected(resource.path+"/", resource.handler)
	}

	protected("/app/api/reports/ingredients", handlers.IngredientsReport)
	protected("/app/api/reports/recipes", handlers.RecipesReport)
	protected("/app/api/reports/downloads/", handlers.Download)

	public("/", handlers.Home)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir("web/static"))))
	applog.Debug(ctx, "route registered", "path", "/assets/", "static", true)
	return mux
}

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/internal/planning"
	"kitchenops/models"
)

const menusPrefix = "/app/api/menus"

type menuResponse struct {
	ID          uint                 `json:"id"`
	Date        string               `json:"date"`
	KitchenID   uint                 `json:"kitchen_id"`
	Kitchen     string               `json:"kitchen"`
	MealType    string               `json:"meal_type"`
	RecipeID    *uint                `json:"recipe_id"`
	Recipe      string               `json:"recipe"`
	Servings    int                  `json:"servings"`
	GhanFactor  float64              `json:"ghan_factor"`
	Notes       string               `json:"notes"`
	Groups      []groupResponse      `json:"groups"`
	Ingredients []ingredientResponse `json:"ingredients"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type menuRequest struct {
	Date       string           `json:"date" validate:"required"`
	KitchenID  uint             `json:"kitchen_id" validate:"required"`
	MealType   string           `json:"meal_type" validate:"required,mealtype"`
	RecipeID   uint             `json:"recipe_id" validate:"required"`
	Servings   int              `json:"servings" validate:"gte=0"`
	GhanFactor *decimal.Decimal `json:"ghan_factor"`
	Notes      string           `json:"notes"`
	// IngredientsText replaces the copied recipe ingredients with parsed lines.
	IngredientsText string `json:"ingredients_text"`
}

type menuUpdateRequest struct {
	MealType   string           `json:"meal_type" validate:"omitempty,mealtype"`
	Servings   *int             `json:"servings" validate:"omitempty,gte=0"`
	GhanFactor *decimal.Decimal `json:"ghan_factor"`
	Notes      *string          `json:"notes"`
}

// MenuResource serves /app/api/menus, /app/api/menus/{id} and /app/api/menus/{id}/grouped.
func MenuResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	segments := resourceSegments(r.URL.Path, menusPrefix)
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listMenus(w, r)
		case http.MethodPost:
			createMenu(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}

	id, ok := parseID(segments[0])
	if !ok || len(segments) > 2 || (len(segments) == 2 && segments[1] != "grouped") {
		http.NotFound(w, r)
		return
	}

	if len(segments) == 2 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		groupedMenu(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showMenu(w, r, id)
	case http.MethodPut:
		updateMenu(w, r, id)
	case http.MethodDelete:
		deleteMenu(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// writePlanningError maps planning failures to responses and falls back to writeStoreError.
func writePlanningError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, planning.ErrMenuNotFound):
		writeJSONError(w, http.StatusNotFound, "menu not found")
	case errors.Is(err, planning.ErrInvalidDate),
		errors.Is(err, planning.ErrInvalidMealType),
		errors.Is(err, planning.ErrInvalidGhan),
		errors.Is(err, planning.ErrInvalidServings):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planning.ErrKitchenNotFound),
		errors.Is(err, planning.ErrRecipeNotFound):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeStoreError(w, r, err, "menu")
	}
}

// filterFromQuery builds a planning filter from ?date=&kitchen_id=&meal_type=. kitchen_id and
// meal_type may repeat. A missing date means today.
func filterFromQuery(r *http.Request) (planning.Filter, error) {
	query := r.URL.Query()
	filter := planning.Filter{Date: planning.Day(nowFunc())}
	if raw := strings.TrimSpace(query.Get("date")); raw != "" {
		day, err := planning.ParseDay(raw)
		if err != nil {
			return planning.Filter{}, err
		}
		filter.Date = day
	}
	for _, raw := range query["kitchen_id"] {
		id, ok := parseID(raw)
		if !ok {
			return planning.Filter{}, errors.New("kitchen_id must be a positive integer")
		}
		filter.KitchenIDs = append(filter.KitchenIDs, id)
	}
	for _, raw := range query["meal_type"] {
		mealType := models.NormalizeMealType(raw)
		if mealType == "" {
			return planning.Filter{}, planning.ErrInvalidMealType
		}
		filter.MealTypes = append(filter.MealTypes, mealType)
	}
	return filter, nil
}

func listMenus(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	menus, err := planning.Find(r.Context(), database, filter)
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	responses := make([]menuResponse, 0, len(menus))
	for _, menu := range menus {
		responses = append(responses, projectMenu(menu))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload menuRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	day, err := planning.ParseDay(payload.Date)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := planning.Input{
		Date:      day,
		KitchenID: payload.KitchenID,
		MealType:  payload.MealType,
		RecipeID:  payload.RecipeID,
		Servings:  payload.Servings,
		Notes:     payload.Notes,
	}
	if payload.GhanFactor != nil {
		input.GhanFactor = *payload.GhanFactor
	}
	if strings.TrimSpace(payload.IngredientsText) != "" {
		lines, warnings := importer.ParseLines(payload.IngredientsText)
		if len(lines) == 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "no ingredient lines found",
				"warnings": nonNil(warnings),
			})
			return
		}
		input.Lines = lines
	}

	menu, err := planning.Plan(ctx, database, input)
	if err != nil {
		writePlanningError(w, r, err)
		return
	}
	applog.Info(ctx, "menu planned", "id", menu.ID, "date", planning.FormatDay(menu.Date), "meal_type", menu.MealType)
	writeJSON(w, http.StatusCreated, projectMenu(menu))
}

func showMenu(w http.ResponseWriter, r *http.Request, id uint) {
	menu, err := planning.Load(r.Context(), database, id)
	if err != nil {
		writePlanningError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectMenu(menu))
}

// updateMenu changes the meal type, servings, ghan factor or notes. The date, kitchen and recipe
// are fixed once planned.
func updateMenu(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	menu, err := planning.Load(ctx, database, id)
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	var payload menuUpdateRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	updates := map[string]any{}
	if payload.MealType != "" {
		updates["meal_type"] = models.NormalizeMealType(payload.MealType)
	}
	if payload.Servings != nil {
		updates["servings"] = *payload.Servings
	}
	if payload.GhanFactor != nil {
		if payload.GhanFactor.Sign() <= 0 {
			writePlanningError(w, r, planning.ErrInvalidGhan)
			return
		}
		updates["ghan_factor"] = *payload.GhanFactor
	}
	if payload.Notes != nil {
		updates["notes"] = strings.TrimSpace(*payload.Notes)
	}

	if len(updates) > 0 {
		if err := database.WithContext(ctx).Model(&models.Menu{}).Where("id = ?", menu.ID).Updates(updates).Error; err != nil {
			writeStoreError(w, r, err, "menu")
			return
		}
	}
	showMenu(w, r, id)
}

func deleteMenu(w http.ResponseWriter, r *http.Request, id uint) {
	if err := planning.Delete(r.Context(), database, id); err != nil {
		writePlanningError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "menu deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// groupedMenu returns the menu's buckets with quantities scaled by its ghan factor.
func groupedMenu(w http.ResponseWriter, r *http.Request, id uint) {
	menu, err := planning.Load(r.Context(), database, id)
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	planned := aggregate.PlannedMeal{GhanFactor: menu.GhanFactor, Ingredients: menu.Ingredients}

	name := ""
	if menu.Recipe != nil {
		name = menu.Recipe.Name
	}
	response := projectGrouped(menu.ID, name, menu.Servings, aggregate.GroupIngredients(planned.ScaledIngredients(), menu.Groups))
	response.GhanFactor = planned.Scale().InexactFloat64()
	writeJSON(w, http.StatusOK, response)
}

func projectMenu(menu models.Menu) menuResponse {
	response := menuResponse{
		ID:          menu.ID,
		Date:        planning.FormatDay(menu.Date),
		KitchenID:   menu.KitchenID,
		MealType:    menu.MealType,
		RecipeID:    menu.RecipeID,
		Servings:    menu.Servings,
		GhanFactor:  menu.GhanFactor.InexactFloat64(),
		Notes:       menu.Notes,
		Groups:      projectGroups(menu.Groups),
		Ingredients: projectIngredients(menu.Ingredients),
		CreatedAt:   menu.CreatedAt,
		UpdatedAt:   menu.UpdatedAt,
	}
	if menu.Kitchen != nil {
		response.Kitchen = menu.Kitchen.Name
	}
	if menu.Recipe != nil {
		response.Recipe = menu.Recipe.Name
	}
	return response
}

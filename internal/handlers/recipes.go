package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/internal/views/pages"
	"kitchenops/models"
)

const (
	recipesPrefix       = "/app/api/recipes"
	maxRecipeUploadSize = 5 << 20 // 5 MiB
)

type recipeResponse struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Category     string               `json:"category"`
	Servings     int                  `json:"servings"`
	Instructions string               `json:"instructions"`
	Groups       []groupResponse      `json:"groups"`
	Ingredients  []ingredientResponse `json:"ingredients"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type recipeRequest struct {
	Name         string `json:"name" validate:"required,max=160"`
	Description  string `json:"description"`
	Category     string `json:"category" validate:"max=80"`
	Servings     int    `json:"servings" validate:"gte=0"`
	Instructions string `json:"instructions"`
	// IngredientsText is parsed as ingredient lines when a recipe is created.
	IngredientsText string `json:"ingredients_text"`
}

type recipeImportRequest struct {
	Text    string `json:"text" validate:"required"`
	Replace bool   `json:"replace"`
}

type recipeImportResponse struct {
	GroupsCreated int            `json:"groups_created"`
	Ingredients   int            `json:"ingredients"`
	Warnings      []string       `json:"warnings"`
	Recipe        recipeResponse `json:"recipe"`
}

// RecipeResource serves /app/api/recipes, /app/api/recipes/{id} and the grouped and import
// sub-resources.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	segments := resourceSegments(r.URL.Path, recipesPrefix)
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			createRecipe(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}

	id, ok := parseID(segments[0])
	if !ok || len(segments) > 2 {
		http.NotFound(w, r)
		return
	}

	if len(segments) == 2 {
		switch {
		case segments[1] == "grouped" && r.Method == http.MethodGet:
			groupedRecipe(w, r, id)
		case segments[1] == "import" && r.Method == http.MethodPost:
			importRecipe(w, r, id)
		case segments[1] == "grouped" || segments[1] == "import":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, id)
	case http.MethodPut:
		updateRecipe(w, r, id)
	case http.MethodDelete:
		deleteRecipe(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func loadRecipe(r *http.Request, id uint) (models.Recipe, error) {
	var recipe models.Recipe
	err := database.WithContext(r.Context()).
		Preload("Groups", func(q *gorm.DB) *gorm.DB { return q.Order("sort_order, id") }).
		Preload("Ingredients", func(q *gorm.DB) *gorm.DB { return q.Order("position, id") }).
		First(&recipe, id).Error
	return recipe, err
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	var recipes []models.Recipe
	if err := database.WithContext(r.Context()).Order("name").Find(&recipes).Error; err != nil {
		writeStoreError(w, r, err, "recipes")
		return
	}

	filtered := pages.FilterRecipes(recipes, pages.RecipeFiltersFromRequest(r))
	responses := make([]recipeResponse, 0, len(filtered))
	for _, recipe := range filtered {
		responses = append(responses, projectRecipe(recipe))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload recipeRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	lines, warnings := importer.ParseLines(payload.IngredientsText)
	recipe := models.Recipe{
		Name:         strings.TrimSpace(payload.Name),
		Description:  strings.TrimSpace(payload.Description),
		Category:     strings.TrimSpace(payload.Category),
		Servings:     max(payload.Servings, 1),
		Instructions: strings.TrimSpace(payload.Instructions),
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		_, err := importer.Apply(ctx, tx, &recipe, lines)
		return err
	})
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	created, err := loadRecipe(r, recipe.ID)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	if len(warnings) > 0 {
		applog.Debug(ctx, "recipe created with skipped lines", "id", recipe.ID, "warnings", len(warnings))
	}
	writeJSON(w, http.StatusCreated, projectRecipe(created))
}

func showRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	recipe, err := loadRecipe(r, id)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(recipe))
}

func updateRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var recipe models.Recipe
	if err := database.WithContext(ctx).First(&recipe, id).Error; err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	var payload recipeRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.IngredientsText) != "" {
		writeJSONError(w, http.StatusBadRequest, "use the import endpoint to change ingredients")
		return
	}

	updates := map[string]any{
		"name":         strings.TrimSpace(payload.Name),
		"description":  strings.TrimSpace(payload.Description),
		"category":     strings.TrimSpace(payload.Category),
		"servings":     max(payload.Servings, 1),
		"instructions": strings.TrimSpace(payload.Instructions),
	}
	if err := database.WithContext(ctx).Model(&recipe).Updates(updates).Error; err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	showRecipe(w, r, id)
}

// deleteRecipe removes the recipe with its groups and ingredients. Menus keep their own copies
// and the dangling reference surfaces as a malformed meal in reports.
func deleteRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	err := database.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.IngredientGroup{}).Error
	})
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	applog.Debug(r.Context(), "recipe deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func groupedRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	recipe, err := loadRecipe(r, id)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	buckets := aggregate.GroupIngredients(recipe.Ingredients, recipe.Groups)
	writeJSON(w, http.StatusOK, projectGrouped(recipe.ID, recipe.Name, recipe.Servings, buckets))
}

func importRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	recipe, err := loadRecipe(r, id)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	text, replace, err := readImportText(w, r)
	if errors.Is(err, errResponseWritten) {
		return
	}
	if err != nil {
		applog.Debug(ctx, "recipe import input rejected", "id", id, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines, warnings := importer.ParseLines(text)
	if len(lines) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    "no ingredient lines found",
			"warnings": nonNil(warnings),
		})
		return
	}

	var result importer.Result
	err = database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var applyErr error
		if replace {
			result, applyErr = importer.Replace(ctx, tx, &recipe, lines)
		} else {
			result, applyErr = importer.Apply(ctx, tx, &recipe, lines)
		}
		return applyErr
	})
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	updated, err := loadRecipe(r, id)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	applog.Info(ctx, "recipe ingredients imported", "id", id, "ingredients", result.Ingredients, "groups", result.GroupsCreated, "replace", replace)
	writeJSON(w, http.StatusOK, recipeImportResponse{
		GroupsCreated: result.GroupsCreated,
		Ingredients:   result.Ingredients,
		Warnings:      nonNil(warnings),
		Recipe:        projectRecipe(updated),
	})
}

// readImportText accepts JSON {"text", "replace"} or a form with a text field and an optional
// uploaded PDF or text file.
func readImportText(w http.ResponseWriter, r *http.Request) (string, bool, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var payload recipeImportRequest
		if !decodeJSON(w, r, &payload) {
			return "", false, errResponseWritten
		}
		return payload.Text, payload.Replace, nil
	}

	if err := r.ParseMultipartForm(maxRecipeUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return "", false, errors.New("upload is too large or invalid")
	}
	text := strings.TrimSpace(r.FormValue("text"))
	replace := r.FormValue("replace") == "true"

	data, mime, err := readRecipeUpload(r)
	if err != nil {
		return "", false, err
	}
	if len(data) > 0 {
		extracted, err := importer.TextFromUpload(data, mime)
		if err != nil {
			return "", false, fmt.Errorf("could not read the uploaded document: %w", err)
		}
		if text != "" {
			text += "\n"
		}
		text += extracted
	}

	if strings.TrimSpace(text) == "" {
		return "", false, errors.New("provide ingredient text or upload a document")
	}
	return text, replace, nil
}

func readRecipeUpload(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	if header.Size > maxRecipeUploadSize {
		return nil, "", fmt.Errorf("file exceeds %d bytes", maxRecipeUploadSize)
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = importer.MimeTypeFromName(header.Filename)
	}
	return buf.Bytes(), mime, nil
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	return recipeResponse{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Description:  recipe.Description,
		Category:     recipe.Category,
		Servings:     recipe.Servings,
		Instructions: recipe.Instructions,
		Groups:       projectGroups(recipe.Groups),
		Ingredients:  projectIngredients(recipe.Ingredients),
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

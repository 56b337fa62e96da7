package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/models"
)

const ingredientsPrefix = "/app/api/ingredients"

var errGroupOwnerMismatch = errors.New("group belongs to a different recipe or menu")

type ingredientRequest struct {
	Name        string           `json:"name" validate:"required,max=160"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Unit        string           `json:"unit" validate:"required,max=32"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
	GroupID     *uint            `json:"group_id"`
	RecipeID    *uint            `json:"recipe_id"`
	MenuID      *uint            `json:"menu_id"`
}

type reorderRequest struct {
	RecipeID *uint `json:"recipe_id"`
	MenuID   *uint `json:"menu_id"`
	From     int   `json:"from" validate:"gte=0"`
	To       int   `json:"to" validate:"gte=0"`
}

// IngredientResource serves /app/api/ingredients, /app/api/ingredients/{id} and
// /app/api/ingredients/reorder.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	segments := resourceSegments(r.URL.Path, ingredientsPrefix)
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			createIngredient(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}

	if len(segments) == 1 && segments[0] == "reorder" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		reorderIngredients(w, r)
		return
	}

	id, ok := parseID(segments[0])
	if !ok || len(segments) > 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showIngredient(w, r, id)
	case http.MethodPut:
		updateIngredient(w, r, id)
	case http.MethodDelete:
		deleteIngredient(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromQuery(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var ingredients []models.Ingredient
	if err := owner.Scope(database.WithContext(r.Context())).Order("position, id").Find(&ingredients).Error; err != nil {
		writeStoreError(w, r, err, "ingredients")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredients(ingredients))
}

func validateIngredient(payload ingredientRequest) error {
	if payload.Quantity.IsNegative() {
		return errors.New("quantity must not be negative")
	}
	if payload.CostPerUnit != nil && payload.CostPerUnit.IsNegative() {
		return errors.New("cost_per_unit must not be negative")
	}
	return nil
}

// checkGroup verifies that groupID, when set, belongs to owner.
func checkGroup(tx *gorm.DB, owner importer.Owner, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	var group models.IngredientGroup
	if err := tx.First(&group, *groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errGroupOwnerMismatch
		}
		return err
	}
	if !sameID(group.RecipeID, owner.RecipeID) || !sameID(group.MenuID, owner.MenuID) {
		return errGroupOwnerMismatch
	}
	return nil
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func costPerUnit(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *value, Valid: true}
}

func createIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload ingredientRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := validateIngredient(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	owner := importer.Owner{RecipeID: payload.RecipeID, MenuID: payload.MenuID}
	if !owner.Valid() {
		writeJSONError(w, http.StatusBadRequest, errOwnerRequired.Error())
		return
	}
	if err := ownerExists(r, owner); err != nil {
		writeStoreError(w, r, err, ownerName(owner))
		return
	}

	ingredient := models.Ingredient{
		Name:        strings.TrimSpace(payload.Name),
		Quantity:    payload.Quantity,
		Unit:        strings.TrimSpace(payload.Unit),
		CostPerUnit: costPerUnit(payload.CostPerUnit),
		GroupID:     payload.GroupID,
		RecipeID:    owner.RecipeID,
		MenuID:      owner.MenuID,
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkGroup(tx, owner, payload.GroupID); err != nil {
			return err
		}
		var existing []models.Ingredient
		if err := owner.Scope(tx).Select("position").Find(&existing).Error; err != nil {
			return err
		}
		for _, item := range existing {
			if item.Position >= ingredient.Position {
				ingredient.Position = item.Position + 1
			}
		}
		return tx.Create(&ingredient).Error
	})
	if errors.Is(err, errGroupOwnerMismatch) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	applog.Debug(ctx, "ingredient created", "id", ingredient.ID, "owner", ownerName(owner))
	writeJSON(w, http.StatusCreated, projectIngredient(ingredient))
}

func showIngredient(w http.ResponseWriter, r *http.Request, id uint) {
	var ingredient models.Ingredient
	if err := database.WithContext(r.Context()).First(&ingredient, id).Error; err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(ingredient))
}

// updateIngredient edits the line in place. A nil group_id moves it to the ungrouped bucket.
func updateIngredient(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var ingredient models.Ingredient
	if err := database.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}

	var payload ingredientRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := validateIngredient(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.RecipeID != nil || payload.MenuID != nil {
		writeJSONError(w, http.StatusBadRequest, "the owner of an ingredient cannot be changed")
		return
	}

	owner := importer.Owner{RecipeID: ingredient.RecipeID, MenuID: ingredient.MenuID}
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkGroup(tx, owner, payload.GroupID); err != nil {
			return err
		}
		return tx.Model(&ingredient).Select("name", "quantity", "unit", "cost_per_unit", "group_id").
			Updates(models.Ingredient{
				Name:        strings.TrimSpace(payload.Name),
				Quantity:    payload.Quantity,
				Unit:        strings.TrimSpace(payload.Unit),
				CostPerUnit: costPerUnit(payload.CostPerUnit),
				GroupID:     payload.GroupID,
			}).Error
	})
	if errors.Is(err, errGroupOwnerMismatch) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	showIngredient(w, r, id)
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, id uint) {
	result := database.WithContext(r.Context()).Unscoped().Delete(&models.Ingredient{}, id)
	if result.Error != nil {
		writeStoreError(w, r, result.Error, "ingredient")
		return
	}
	if result.RowsAffected == 0 {
		writeJSONError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reorderIngredients moves one ingredient within its owner's list and renumbers positions from
// zero.
func reorderIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload reorderRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	owner := importer.Owner{RecipeID: payload.RecipeID, MenuID: payload.MenuID}
	if !owner.Valid() {
		writeJSONError(w, http.StatusBadRequest, errOwnerRequired.Error())
		return
	}

	var reordered []models.Ingredient
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredients []models.Ingredient
		if err := owner.Scope(tx).Order("position, id").Find(&ingredients).Error; err != nil {
			return err
		}
		moved, err := aggregate.Move(ingredients, payload.From, payload.To)
		if err != nil {
			return err
		}
		for idx := range moved {
			if moved[idx].Position == idx {
				continue
			}
			if err := tx.Model(&moved[idx]).Update("position", idx).Error; err != nil {
				return err
			}
			moved[idx].Position = idx
		}
		reordered = moved
		return nil
	})
	if errors.Is(err, aggregate.ErrIndexOutOfRange) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "ingredients")
		return
	}
	applog.Debug(ctx, "ingredients reordered", "owner", ownerName(owner), "from", payload.From, "to", payload.To)
	writeJSON(w, http.StatusOK, projectIngredients(reordered))
}

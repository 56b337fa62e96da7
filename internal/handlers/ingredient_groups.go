package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/models"
)

const ingredientGroupsPrefix = "/app/api/ingredient-groups"

var errOwnerRequired = errors.New("exactly one of recipe_id or menu_id is required")

type ingredientGroupRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	SortOrder *int   `json:"sort_order"`
	RecipeID  *uint  `json:"recipe_id"`
	MenuID    *uint  `json:"menu_id"`
}

func (p ingredientGroupRequest) owner() importer.Owner {
	return importer.Owner{RecipeID: p.RecipeID, MenuID: p.MenuID}
}

// IngredientGroupResource serves /app/api/ingredient-groups and /app/api/ingredient-groups/{id}.
// Listing requires a recipe_id or menu_id query parameter.
func IngredientGroupResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	segments := resourceSegments(r.URL.Path, ingredientGroupsPrefix)
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listIngredientGroups(w, r)
		case http.MethodPost:
			createIngredientGroup(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}

	id, ok := parseID(segments[0])
	if !ok || len(segments) > 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showIngredientGroup(w, r, id)
	case http.MethodPut:
		updateIngredientGroup(w, r, id)
	case http.MethodDelete:
		deleteIngredientGroup(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// ownerFromQuery reads recipe_id/menu_id from the query string.
func ownerFromQuery(r *http.Request) (importer.Owner, error) {
	recipeID, err := queryID(r, "recipe_id")
	if err != nil {
		return importer.Owner{}, err
	}
	menuID, err := queryID(r, "menu_id")
	if err != nil {
		return importer.Owner{}, err
	}
	owner := importer.Owner{RecipeID: recipeID, MenuID: menuID}
	if !owner.Valid() {
		return importer.Owner{}, errOwnerRequired
	}
	return owner, nil
}

// ownerExists checks that the recipe or menu behind owner is present.
func ownerExists(r *http.Request, owner importer.Owner) error {
	db := database.WithContext(r.Context())
	if owner.RecipeID != nil {
		return db.Select("id").First(&models.Recipe{}, *owner.RecipeID).Error
	}
	return db.Select("id").First(&models.Menu{}, *owner.MenuID).Error
}

func ownerName(owner importer.Owner) string {
	if owner.RecipeID != nil {
		return "recipe"
	}
	return "menu"
}

func listIngredientGroups(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromQuery(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var groups []models.IngredientGroup
	if err := owner.Scope(database.WithContext(r.Context())).Order("sort_order, id").Find(&groups).Error; err != nil {
		writeStoreError(w, r, err, "ingredient groups")
		return
	}
	writeJSON(w, http.StatusOK, projectGroups(groups))
}

func createIngredientGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload ingredientGroupRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	owner := payload.owner()
	if !owner.Valid() {
		writeJSONError(w, http.StatusBadRequest, errOwnerRequired.Error())
		return
	}
	if err := ownerExists(r, owner); err != nil {
		writeStoreError(w, r, err, ownerName(owner))
		return
	}

	group := models.IngredientGroup{
		Name:     strings.TrimSpace(payload.Name),
		RecipeID: owner.RecipeID,
		MenuID:   owner.MenuID,
	}
	if payload.SortOrder != nil {
		group.SortOrder = *payload.SortOrder
	} else {
		next, err := nextSortOrder(r, owner)
		if err != nil {
			writeStoreError(w, r, err, "ingredient group")
			return
		}
		group.SortOrder = next
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGroupNameFree(tx, r, owner, group.Name, 0); err != nil {
			return err
		}
		return tx.Create(&group).Error
	})
	if err != nil {
		writeStoreError(w, r, err, "ingredient group")
		return
	}
	applog.Debug(ctx, "ingredient group created", "id", group.ID, "owner", ownerName(owner))
	writeJSON(w, http.StatusCreated, projectGroup(group))
}

func nextSortOrder(r *http.Request, owner importer.Owner) (int, error) {
	var groups []models.IngredientGroup
	if err := owner.Scope(database.WithContext(r.Context())).Select("sort_order").Find(&groups).Error; err != nil {
		return 0, err
	}
	next := 0
	for _, group := range groups {
		if group.SortOrder >= next {
			next = group.SortOrder + 1
		}
	}
	return next, nil
}

func showIngredientGroup(w http.ResponseWriter, r *http.Request, id uint) {
	var group models.IngredientGroup
	if err := database.WithContext(r.Context()).First(&group, id).Error; err != nil {
		writeStoreError(w, r, err, "ingredient group")
		return
	}
	writeJSON(w, http.StatusOK, projectGroup(group))
}

// updateIngredientGroup renames or reorders a group. Its owner cannot change.
func updateIngredientGroup(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var group models.IngredientGroup
	if err := database.WithContext(ctx).First(&group, id).Error; err != nil {
		writeStoreError(w, r, err, "ingredient group")
		return
	}

	var payload ingredientGroupRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.RecipeID != nil || payload.MenuID != nil {
		writeJSONError(w, http.StatusBadRequest, "the owner of a group cannot be changed")
		return
	}

	name := strings.TrimSpace(payload.Name)
	updates := map[string]any{"name": name}
	if payload.SortOrder != nil {
		updates["sort_order"] = *payload.SortOrder
	}
	owner := importer.Owner{RecipeID: group.RecipeID, MenuID: group.MenuID}
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGroupNameFree(tx, r, owner, name, group.ID); err != nil {
			return err
		}
		return tx.Model(&group).Updates(updates).Error
	})
	if err != nil {
		writeStoreError(w, r, err, "ingredient group")
		return
	}
	showIngredientGroup(w, r, id)
}

// ensureGroupNameFree returns gorm.ErrDuplicatedKey when another group of owner uses name.
func ensureGroupNameFree(tx *gorm.DB, r *http.Request, owner importer.Owner, name string, except uint) error {
	taken, err := importer.GroupNameTaken(r.Context(), tx, owner, name, except)
	if err != nil {
		return err
	}
	if taken {
		return gorm.ErrDuplicatedKey
	}
	return nil
}

// deleteIngredientGroup removes the group and moves its ingredients to the ungrouped bucket.
func deleteIngredientGroup(w http.ResponseWriter, r *http.Request, id uint) {
	err := database.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var group models.IngredientGroup
		if err := tx.First(&group, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Ingredient{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&group).Error
	})
	if err != nil {
		writeStoreError(w, r, err, "ingredient group")
		return
	}
	applog.Debug(r.Context(), "ingredient group deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

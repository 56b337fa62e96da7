package handlers

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "kitchenops/internal/log"
	"kitchenops/models"
)

const kitchensPrefix = "/app/api/kitchens"

type kitchenResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type kitchenRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Location string `json:"location" validate:"max=240"`
	Active   *bool  `json:"active"`
}

// KitchenResource serves /app/api/kitchens and /app/api/kitchens/{id}.
func KitchenResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	segments := resourceSegments(r.URL.Path, kitchensPrefix)
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listKitchens(w, r)
		case http.MethodPost:
			createKitchen(w, r)
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
		showKitchen(w, r, id)
	case http.MethodPut:
		updateKitchen(w, r, id)
	case http.MethodDelete:
		deleteKitchen(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func listKitchens(w http.ResponseWriter, r *http.Request) {
	var kitchens []models.Kitchen
	query := database.WithContext(r.Context()).Order("name")
	if r.URL.Query().Get("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&kitchens).Error; err != nil {
		writeStoreError(w, r, err, "kitchens")
		return
	}

	responses := make([]kitchenResponse, 0, len(kitchens))
	for _, kitchen := range kitchens {
		responses = append(responses, projectKitchen(kitchen))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createKitchen(w http.ResponseWriter, r *http.Request) {
	var payload kitchenRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	active := payload.Active == nil || *payload.Active
	kitchen := models.Kitchen{
		Name:     strings.TrimSpace(payload.Name),
		Location: strings.TrimSpace(payload.Location),
		Active:   active,
	}
	err := database.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&kitchen).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		// gorm skips the false zero value on insert and reads back the column default
		if err := tx.Model(&kitchen).Update("active", false).Error; err != nil {
			return err
		}
		kitchen.Active = false
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err, "kitchen")
		return
	}

	applog.Debug(r.Context(), "kitchen created", "id", kitchen.ID, "name", kitchen.Name)
	writeJSON(w, http.StatusCreated, projectKitchen(kitchen))
}

func showKitchen(w http.ResponseWriter, r *http.Request, id uint) {
	var kitchen models.Kitchen
	if err := database.WithContext(r.Context()).First(&kitchen, id).Error; err != nil {
		writeStoreError(w, r, err, "kitchen")
		return
	}
	writeJSON(w, http.StatusOK, projectKitchen(kitchen))
}

func updateKitchen(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var kitchen models.Kitchen
	if err := database.WithContext(ctx).First(&kitchen, id).Error; err != nil {
		writeStoreError(w, r, err, "kitchen")
		return
	}

	var payload kitchenRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	updates := map[string]any{
		"name":     strings.TrimSpace(payload.Name),
		"location": strings.TrimSpace(payload.Location),
	}
	if payload.Active != nil {
		updates["active"] = *payload.Active
	}
	if err := database.WithContext(ctx).Model(&kitchen).Updates(updates).Error; err != nil {
		writeStoreError(w, r, err, "kitchen")
		return
	}
	if err := database.WithContext(ctx).First(&kitchen, id).Error; err != nil {
		writeStoreError(w, r, err, "kitchen")
		return
	}
	writeJSON(w, http.StatusOK, projectKitchen(kitchen))
}

// deleteKitchen soft deletes the kitchen. Menus already planned for it stay in place and are
// reported as malformed until they are removed.
func deleteKitchen(w http.ResponseWriter, r *http.Request, id uint) {
	result := database.WithContext(r.Context()).Delete(&models.Kitchen{}, id)
	if result.Error != nil {
		writeStoreError(w, r, result.Error, "kitchen")
		return
	}
	if result.RowsAffected == 0 {
		writeJSONError(w, http.StatusNotFound, "kitchen not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectKitchen(kitchen models.Kitchen) kitchenResponse {
	return kitchenResponse{
		ID:        kitchen.ID,
		Name:      kitchen.Name,
		Location:  kitchen.Location,
		Active:    kitchen.Active,
		CreatedAt: kitchen.CreatedAt,
		UpdatedAt: kitchen.UpdatedAt,
	}
}

package handlers

import (
	"net/http"
	"strings"

	applog "campmeals/internal/log"
	"campmeals/internal/store"
	"campmeals/models"
)

type ingredientResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	CategoryID    uint    `json:"category_id"`
	CategoryName  string  `json:"category_name,omitempty"`
	PrimaryUnit   string  `json:"primary_unit"`
	SecondaryUnit *string `json:"secondary_unit"`
}

// ingredientRequest serves both create and partial update. An empty secondary_unit
// clears it.
type ingredientRequest struct {
	Name          *string `json:"name"`
	CategoryID    *uint   `json:"category_id"`
	PrimaryUnit   *string `json:"primary_unit"`
	SecondaryUnit *string `json:"secondary_unit"`
}

func projectIngredient(i models.Ingredient) ingredientResponse {
	resp := ingredientResponse{
		ID:            i.ID,
		Name:          i.Name,
		CategoryID:    i.CategoryID,
		PrimaryUnit:   i.PrimaryUnit,
		SecondaryUnit: i.SecondaryUnit,
	}
	if i.Category != nil {
		resp.CategoryName = i.Category.Name
	}
	return resp
}

func secondaryUnit(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// IngredientResource serves /api/ingredients and /api/ingredients/{id}. The list accepts
// a category_id filter.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	segments := pathSegments(r.URL.Path, "/api/ingredients")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			createIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if len(segments) > 1 {
		http.NotFound(w, r)
		return
	}

	id, err := parseID(segments[0])
	if err != nil {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ingredient, err := catalog.GetIngredient(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "load ingredient")
			return
		}
		writeJSON(w, http.StatusOK, projectIngredient(ingredient))
	case http.MethodPut, http.MethodPatch:
		var payload ingredientRequest
		if !decodeJSON(w, r, &payload) {
			return
		}
		update := store.IngredientUpdate{
			Name:        payload.Name,
			CategoryID:  payload.CategoryID,
			PrimaryUnit: payload.PrimaryUnit,
		}
		if payload.SecondaryUnit != nil {
			unit := secondaryUnit(payload.SecondaryUnit)
			update.SecondaryUnit = &unit
		}
		ingredient, err := catalog.UpdateIngredient(r.Context(), id, update)
		if err != nil {
			writeStoreError(w, r, err, "update ingredient")
			return
		}
		writeJSON(w, http.StatusOK, projectIngredient(ingredient))
	case http.MethodDelete:
		if err := catalog.DeleteIngredient(r.Context(), id); err != nil {
			writeStoreError(w, r, err, "delete ingredient")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	var categoryID *uint
	if value := r.URL.Query().Get("category_id"); value != "" {
		id, err := parseID(value)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "category_id: "+err.Error())
			return
		}
		categoryID = &id
	}

	ingredients, err := catalog.ListIngredients(r.Context(), categoryID)
	if err != nil {
		writeStoreError(w, r, err, "load ingredients")
		return
	}
	responses := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, projectIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createIngredient(w http.ResponseWriter, r *http.Request) {
	var payload ingredientRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	ingredient := models.Ingredient{SecondaryUnit: secondaryUnit(payload.SecondaryUnit)}
	if payload.Name != nil {
		ingredient.Name = *payload.Name
	}
	if payload.CategoryID != nil {
		ingredient.CategoryID = *payload.CategoryID
	}
	if payload.PrimaryUnit != nil {
		ingredient.PrimaryUnit = *payload.PrimaryUnit
	}

	created, err := catalog.CreateIngredient(r.Context(), ingredient)
	if err != nil {
		writeStoreError(w, r, err, "create ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, projectIngredient(created))
}

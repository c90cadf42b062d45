package handlers

import (
	"net/http"

	applog "campmeals/internal/log"
	"campmeals/internal/store"
	"campmeals/models"
)

type categoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type categoryRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

func projectCategory(c models.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder}
}

// CategoryResource serves /api/categories and /api/categories/{id}.
func CategoryResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	segments := pathSegments(r.URL.Path, "/api/categories")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listCategories(w, r)
		case http.MethodPost:
			createCategory(w, r)
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
		applog.Debug(r.Context(), "invalid category identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		category, err := catalog.GetCategory(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "load category")
			return
		}
		writeJSON(w, http.StatusOK, projectCategory(category))
	case http.MethodPut, http.MethodPatch:
		var payload categoryRequest
		if !decodeJSON(w, r, &payload) {
			return
		}
		category, err := catalog.UpdateCategory(r.Context(), id, store.CategoryUpdate{Name: payload.Name, SortOrder: payload.SortOrder})
		if err != nil {
			writeStoreError(w, r, err, "update category")
			return
		}
		writeJSON(w, http.StatusOK, projectCategory(category))
	case http.MethodDelete:
		if err := catalog.DeleteCategory(r.Context(), id); err != nil {
			writeStoreError(w, r, err, "delete category")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := catalog.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "load categories")
		return
	}
	responses := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, projectCategory(category))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	name, sortOrder := "", 0
	if payload.Name != nil {
		name = *payload.Name
	}
	if payload.SortOrder != nil {
		sortOrder = *payload.SortOrder
	}
	category, err := catalog.CreateCategory(r.Context(), name, sortOrder)
	if err != nil {
		writeStoreError(w, r, err, "create category")
		return
	}
	writeJSON(w, http.StatusCreated, projectCategory(category))
}

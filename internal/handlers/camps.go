package handlers

import (
	"net/http"

	applog "campmeals/internal/log"
	"campmeals/internal/store"
	"campmeals/models"
)

type campResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	DefaultChildren int    `json:"default_children"`
	DefaultTeens    int    `json:"default_teens"`
	DefaultAdults   int    `json:"default_adults"`
	Notes           string `json:"notes"`
}

// campRequest carries dates as YYYY-MM-DD strings.
type campRequest struct {
	Name            *string `json:"name"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	DefaultChildren *int    `json:"default_children"`
	DefaultTeens    *int    `json:"default_teens"`
	DefaultAdults   *int    `json:"default_adults"`
	Notes           *string `json:"notes"`
}

func projectCamp(c models.Camp) campResponse {
	return campResponse{
		ID:              c.ID,
		Name:            c.Name,
		StartDate:       formatDate(c.StartDate),
		EndDate:         formatDate(c.EndDate),
		DefaultChildren: c.DefaultChildren,
		DefaultTeens:    c.DefaultTeens,
		DefaultAdults:   c.DefaultAdults,
		Notes:           c.Notes,
	}
}

func (p campRequest) update() (store.CampUpdate, error) {
	update := store.CampUpdate{
		Name:            p.Name,
		DefaultChildren: p.DefaultChildren,
		DefaultTeens:    p.DefaultTeens,
		DefaultAdults:   p.DefaultAdults,
		Notes:           p.Notes,
	}
	if p.StartDate != nil {
		start, err := parseDate("start_date", *p.StartDate)
		if err != nil {
			return store.CampUpdate{}, err
		}
		update.StartDate = &start
	}
	if p.EndDate != nil {
		end, err := parseDate("end_date", *p.EndDate)
		if err != nil {
			return store.CampUpdate{}, err
		}
		update.EndDate = &end
	}
	return update, nil
}

// CampResource serves /api/camps and everything below /api/camps/{id}: the camp itself,
// its planned meals and its reports.
func CampResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	segments := pathSegments(r.URL.Path, "/api/camps")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listCamps(w, r)
		case http.MethodPost:
			createCamp(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := parseID(segments[0])
	if err != nil || len(segments) > 2 {
		applog.Debug(r.Context(), "invalid camp path", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	if len(segments) == 2 {
		switch segments[1] {
		case "meals":
			campMeals(w, r, id)
		case "shopping-list":
			shoppingListJSON(w, r, id)
		case "daily-shopping-list":
			dailyShoppingListJSON(w, r, id)
		case "schedule":
			mealScheduleJSON(w, r, id)
		case "attendance-summary":
			attendanceSummaryJSON(w, r, id)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		camp, err := catalog.GetCamp(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "load camp")
			return
		}
		writeJSON(w, http.StatusOK, projectCamp(camp))
	case http.MethodPut, http.MethodPatch:
		var payload campRequest
		if !decodeJSON(w, r, &payload) {
			return
		}
		update, err := payload.update()
		if err != nil {
			writeStoreError(w, r, err, "update camp")
			return
		}
		camp, err := catalog.UpdateCamp(r.Context(), id, update)
		if err != nil {
			writeStoreError(w, r, err, "update camp")
			return
		}
		writeJSON(w, http.StatusOK, projectCamp(camp))
	case http.MethodDelete:
		if err := catalog.DeleteCamp(r.Context(), id); err != nil {
			writeStoreError(w, r, err, "delete camp")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listCamps(w http.ResponseWriter, r *http.Request) {
	camps, err := catalog.ListCamps(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "load camps")
		return
	}
	responses := make([]campResponse, 0, len(camps))
	for _, camp := range camps {
		responses = append(responses, projectCamp(camp))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createCamp(w http.ResponseWriter, r *http.Request) {
	var payload campRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	update, err := payload.update()
	if err != nil {
		writeStoreError(w, r, err, "create camp")
		return
	}

	camp := models.Camp{}
	if update.Name != nil {
		camp.Name = *update.Name
	}
	if update.StartDate != nil {
		camp.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		camp.EndDate = *update.EndDate
	}
	if update.DefaultChildren != nil {
		camp.DefaultChildren = *update.DefaultChildren
	}
	if update.DefaultTeens != nil {
		camp.DefaultTeens = *update.DefaultTeens
	}
	if update.DefaultAdults != nil {
		camp.DefaultAdults = *update.DefaultAdults
	}
	if update.Notes != nil {
		camp.Notes = *update.Notes
	}

	created, err := catalog.CreateCamp(r.Context(), camp)
	if err != nil {
		writeStoreError(w, r, err, "create camp")
		return
	}
	applog.Info(r.Context(), "camp created", "id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, projectCamp(created))
}

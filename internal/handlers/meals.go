package handlers

import (
	"net/http"

	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/internal/store"
	"campmeals/models"
)

type plannedMealResponse struct {
	ID         uint                 `json:"id"`
	CampID     uint                 `json:"camp_id,omitempty"`
	Date       string               `json:"date,omitempty"`
	MealType   planning.MealType    `json:"meal_type"`
	RecipeID   uint                 `json:"recipe_id"`
	RecipeName string               `json:"recipe_name,omitempty"`
	Attendance *planning.Attendance `json:"attendance"`
}

type plannedMealRequest struct {
	Date       *string              `json:"date"`
	RecipeID   *uint                `json:"recipe_id"`
	MealType   *string              `json:"meal_type"`
	Attendance *planning.Attendance `json:"attendance"`
}

func projectPlannedMeal(meal models.PlannedMeal) plannedMealResponse {
	resp := plannedMealResponse{
		ID:         meal.ID,
		MealType:   meal.MealType,
		RecipeID:   meal.RecipeID,
		Attendance: meal.Attendance.Headcount(),
	}
	if meal.MealPlan != nil {
		resp.CampID = meal.MealPlan.CampID
		resp.Date = formatDate(meal.MealPlan.Date)
	}
	if meal.Recipe != nil {
		resp.RecipeName = meal.Recipe.Name
	}
	return resp
}

func projectPlannedMeals(meals []models.PlannedMeal) []plannedMealResponse {
	responses := make([]plannedMealResponse, 0, len(meals))
	for _, meal := range meals {
		responses = append(responses, projectPlannedMeal(meal))
	}
	return responses
}

func parseMealType(value *string) (*planning.MealType, error) {
	if value == nil {
		return nil, nil
	}
	m, err := planning.ParseMealType(*value)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// campMeals serves /api/camps/{id}/meals. GET accepts either date or a start/end range.
func campMeals(w http.ResponseWriter, r *http.Request, campID uint) {
	switch r.Method {
	case http.MethodGet:
		listCampMeals(w, r, campID)
	case http.MethodPost:
		createPlannedMeal(w, r, campID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listCampMeals(w http.ResponseWriter, r *http.Request, campID uint) {
	if _, err := catalog.GetCamp(r.Context(), campID); err != nil {
		writeStoreError(w, r, err, "load planned meals")
		return
	}

	date, err := optionalDate(r, "date")
	if err != nil {
		writeStoreError(w, r, err, "load planned meals")
		return
	}
	from, err := optionalDate(r, "start")
	if err != nil {
		writeStoreError(w, r, err, "load planned meals")
		return
	}
	to, err := optionalDate(r, "end")
	if err != nil {
		writeStoreError(w, r, err, "load planned meals")
		return
	}

	var meals []models.PlannedMeal
	if date != nil {
		meals, err = catalog.ListMealsForDate(r.Context(), campID, *date)
	} else {
		meals, err = catalog.ListPlannedMeals(r.Context(), campID, from, to)
	}
	if err != nil {
		writeStoreError(w, r, err, "load planned meals")
		return
	}
	writeJSON(w, http.StatusOK, projectPlannedMeals(meals))
}

func createPlannedMeal(w http.ResponseWriter, r *http.Request, campID uint) {
	var payload plannedMealRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	in := store.PlannedMealInput{CampID: campID, Attendance: payload.Attendance}
	if payload.Date != nil {
		date, err := parseDate("date", *payload.Date)
		if err != nil {
			writeStoreError(w, r, err, "plan meal")
			return
		}
		in.Date = date
	}
	if payload.RecipeID != nil {
		in.RecipeID = *payload.RecipeID
	}
	mealType, err := parseMealType(payload.MealType)
	if err != nil {
		writeStoreError(w, r, err, "plan meal")
		return
	}
	if mealType != nil {
		in.MealType = *mealType
	}

	meal, err := catalog.CreatePlannedMeal(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, err, "plan meal")
		return
	}
	applog.Info(r.Context(), "meal planned", "id", meal.ID, "camp_id", campID, "meal_type", meal.MealType.String())
	writeJSON(w, http.StatusCreated, projectPlannedMeal(meal))
}

// PlannedMealResource serves /api/meals/{id} and /api/meals/{id}/attendance.
func PlannedMealResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	segments := pathSegments(r.URL.Path, "/api/meals")
	if len(segments) == 0 || len(segments) > 2 {
		http.NotFound(w, r)
		return
	}
	id, err := parseID(segments[0])
	if err != nil {
		applog.Debug(r.Context(), "invalid planned meal identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	if len(segments) == 2 {
		if segments[1] != "attendance" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		setMealAttendance(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		meal, err := catalog.GetPlannedMeal(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "load planned meal")
			return
		}
		writeJSON(w, http.StatusOK, projectPlannedMeal(meal))
	case http.MethodPut, http.MethodPatch:
		var payload plannedMealRequest
		if !decodeJSON(w, r, &payload) {
			return
		}
		if payload.Date != nil {
			writeJSONError(w, http.StatusBadRequest, "date: a planned meal cannot be moved to another day")
			return
		}
		mealType, err := parseMealType(payload.MealType)
		if err != nil {
			writeStoreError(w, r, err, "update planned meal")
			return
		}
		meal, err := catalog.UpdatePlannedMeal(r.Context(), id, store.PlannedMealUpdate{
			RecipeID:   payload.RecipeID,
			MealType:   mealType,
			Attendance: payload.Attendance,
		})
		if err != nil {
			writeStoreError(w, r, err, "update planned meal")
			return
		}
		writeJSON(w, http.StatusOK, projectPlannedMeal(meal))
	case http.MethodDelete:
		if err := catalog.DeletePlannedMeal(r.Context(), id); err != nil {
			writeStoreError(w, r, err, "delete planned meal")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func setMealAttendance(w http.ResponseWriter, r *http.Request, id uint) {
	var payload planning.Attendance
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := catalog.SetAttendance(r.Context(), id, payload); err != nil {
		writeStoreError(w, r, err, "set attendance")
		return
	}
	meal, err := catalog.GetPlannedMeal(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "set attendance")
		return
	}
	writeJSON(w, http.StatusOK, projectPlannedMeal(meal))
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"

	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/internal/reports"
	"campmeals/internal/store"
	"campmeals/internal/views"
)

type shoppingListResponse struct {
	CampID    uint                        `json:"camp_id"`
	CampName  string                      `json:"camp_name"`
	StartDate string                      `json:"start_date"`
	EndDate   string                      `json:"end_date"`
	Items     []planning.ShoppingListItem `json:"items"`
}

type scheduleItemResponse struct {
	Date       string            `json:"date"`
	MealType   planning.MealType `json:"meal_type"`
	RecipeName string            `json:"recipe_name"`
	Children   int               `json:"children"`
	Teens      int               `json:"teens"`
	Adults     int               `json:"adults"`
}

type attendanceItemResponse struct {
	Date        string            `json:"date"`
	MealType    planning.MealType `json:"meal_type"`
	Children    int               `json:"children"`
	Teens       int               `json:"teens"`
	Adults      int               `json:"adults"`
	TotalPeople int               `json:"total_people"`
}

func projectShoppingList(list reports.ShoppingList) shoppingListResponse {
	items := list.Items
	if items == nil {
		items = []planning.ShoppingListItem{}
	}
	return shoppingListResponse{
		CampID:    list.CampID,
		CampName:  list.CampName,
		StartDate: formatDate(list.StartDate),
		EndDate:   formatDate(list.EndDate),
		Items:     items,
	}
}

// reportRange reads start and end from the query. Missing bounds fall back to the camp's
// own dates, and date= selects a single day.
func reportRange(r *http.Request, campID uint) (time.Time, time.Time, error) {
	date, err := optionalDate(r, "date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if date != nil {
		return *date, *date, nil
	}

	start, err := optionalDate(r, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := optionalDate(r, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start != nil && end != nil {
		return *start, *end, nil
	}

	camp, err := catalog.GetCamp(r.Context(), campID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start == nil {
		start = &camp.StartDate
	}
	if end == nil {
		end = &camp.EndDate
	}
	return *start, *end, nil
}

func shoppingListJSON(w http.ResponseWriter, r *http.Request, campID uint) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start, end, err := reportRange(r, campID)
	if err != nil {
		writeStoreError(w, r, err, "compute shopping list")
		return
	}
	list, err := reportService.ComputeShoppingList(r.Context(), campID, start, end)
	if err != nil {
		writeStoreError(w, r, err, "compute shopping list")
		return
	}
	writeJSON(w, http.StatusOK, projectShoppingList(list))
}

func dailyShoppingListJSON(w http.ResponseWriter, r *http.Request, campID uint) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	date, err := optionalDate(r, "date")
	if err != nil {
		writeStoreError(w, r, err, "compute daily shopping list")
		return
	}
	if date == nil {
		writeJSONError(w, http.StatusBadRequest, "date: date is required")
		return
	}
	list, err := reportService.ComputeDailyShoppingList(r.Context(), campID, *date)
	if err != nil {
		writeStoreError(w, r, err, "compute daily shopping list")
		return
	}
	writeJSON(w, http.StatusOK, projectShoppingList(list))
}

func mealScheduleJSON(w http.ResponseWriter, r *http.Request, campID uint) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items, err := reportService.ComputeMealSchedule(r.Context(), campID)
	if err != nil {
		writeStoreError(w, r, err, "compute meal schedule")
		return
	}
	responses := make([]scheduleItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, scheduleItemResponse{
			Date:       formatDate(item.Date),
			MealType:   item.MealType,
			RecipeName: item.RecipeName,
			Children:   item.Children,
			Teens:      item.Teens,
			Adults:     item.Adults,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func attendanceSummaryJSON(w http.ResponseWriter, r *http.Request, campID uint) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items, err := reportService.ComputeAttendanceSummary(r.Context(), campID)
	if err != nil {
		writeStoreError(w, r, err, "compute attendance summary")
		return
	}
	responses := make([]attendanceItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, attendanceItemResponse{
			Date:        formatDate(item.Date),
			MealType:    item.MealType,
			Children:    item.Children,
			Teens:       item.Teens,
			Adults:      item.Adults,
			TotalPeople: item.TotalPeople,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// ShoppingListPage renders the printable shopping list for camp_id and the same range
// parameters as the JSON report. lang=cz switches the page to Czech.
func ShoppingListPage(w http.ResponseWriter, r *http.Request) {
	campID, ok := pageCampID(w, r)
	if !ok {
		return
	}
	start, end, err := reportRange(r, campID)
	if err != nil {
		writeReportPageError(w, r, err)
		return
	}
	list, err := reportService.ComputeShoppingList(r.Context(), campID, start, end)
	if err != nil {
		writeReportPageError(w, r, err)
		return
	}
	renderPage(w, r, views.ShoppingList(list, views.ParseLanguage(r.URL.Query().Get("lang"))))
}

// SchedulePage renders the printable meal schedule of camp_id, in English or Czech.
func SchedulePage(w http.ResponseWriter, r *http.Request) {
	campID, ok := pageCampID(w, r)
	if !ok {
		return
	}
	camp, err := catalog.GetCamp(r.Context(), campID)
	if err != nil {
		writeReportPageError(w, r, err)
		return
	}
	items, err := reportService.ComputeMealSchedule(r.Context(), campID)
	if err != nil {
		writeReportPageError(w, r, err)
		return
	}
	renderPage(w, r, views.MealSchedule(camp.Name, items, views.ParseLanguage(r.URL.Query().Get("lang"))))
}

// Home lists the camps with links to their printable reports.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if reportService == nil {
		http.Error(w, "Reporting is unavailable because no database connection is configured.", http.StatusServiceUnavailable)
		return
	}
	camps, err := catalog.ListCamps(r.Context())
	if err != nil {
		writeReportPageError(w, r, err)
		return
	}
	renderPage(w, r, views.Home(camps))
}

func pageCampID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return 0, false
	}
	if reportService == nil {
		http.Error(w, "Reporting is unavailable because no database connection is configured.", http.StatusServiceUnavailable)
		return 0, false
	}
	campID, err := parseID(r.URL.Query().Get("camp_id"))
	if err != nil {
		http.Error(w, "Select a camp before running the report.", http.StatusBadRequest)
		return 0, false
	}
	return campID, true
}

func writeReportPageError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *planning.ValidationError
	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "The selected camp or one of its recipes no longer exists.", http.StatusNotFound)
	default:
		applog.Error(r.Context(), "failed to build report page", "error", err)
		http.Error(w, "We were unable to generate the report. Please try again.", http.StatusInternalServerError)
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

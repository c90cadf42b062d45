package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campmeals/internal/planning"
)

func TestCampResource(t *testing.T) {
	withTestHandlers(t)

	rec := doJSON(t, CampResource, http.MethodPost, "/api/camps", map[string]any{
		"name": "Autumn", "start_date": "2025-10-10", "end_date": "2025-10-12",
		"default_children": 10, "default_teens": 2, "default_adults": 3,
	})
	expectStatus(t, rec, http.StatusCreated)
	autumn := decodeBody[campResponse](t, rec)
	if autumn.StartDate != "2025-10-10" || autumn.DefaultChildren != 10 {
		t.Fatalf("unexpected camp: %+v", autumn)
	}

	cases := []struct {
		name string
		body map[string]any
	}{
		{"end before start", map[string]any{"name": "Bad", "start_date": "2025-10-12", "end_date": "2025-10-10"}},
		{"same day", map[string]any{"name": "Bad", "start_date": "2025-10-12", "end_date": "2025-10-12"}},
		{"bad date format", map[string]any{"name": "Bad", "start_date": "12.10.2025", "end_date": "2025-10-14"}},
		{"negative default", map[string]any{"name": "Bad", "start_date": "2025-10-10", "end_date": "2025-10-12", "default_teens": -1}},
		{"missing name", map[string]any{"start_date": "2025-10-10", "end_date": "2025-10-12"}},
	}
	for _, tc := range cases {
		rec := doJSON(t, CampResource, http.MethodPost, "/api/camps", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
	}

	path := fmt.Sprintf("/api/camps/%d", autumn.ID)
	rec = doJSON(t, CampResource, http.MethodPatch, path, map[string]any{"end_date": "2025-10-09"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, CampResource, http.MethodPatch, path, map[string]any{"end_date": "2025-10-15", "notes": "longer"})
	expectStatus(t, rec, http.StatusOK)
	if updated := decodeBody[campResponse](t, rec); updated.EndDate != "2025-10-15" || updated.Name != "Autumn" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps", nil)
	expectStatus(t, rec, http.StatusOK)
	if camps := decodeBody[[]campResponse](t, rec); len(camps) != 2 || camps[0].Name != "Autumn" {
		t.Fatalf("expected newest camp first, got %+v", camps)
	}

	rec = doJSON(t, CampResource, http.MethodDelete, path, nil)
	expectStatus(t, rec, http.StatusNoContent)
	rec = doJSON(t, CampResource, http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/unknown", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestPlannedMealLifecycle(t *testing.T) {
	withTestHandlers(t)

	rec := doJSON(t, CampResource, http.MethodPost, "/api/camps/1/meals", map[string]any{
		"date": "2025-07-03", "recipe_id": 2, "meal_type": "dinner",
		"attendance": map[string]int{"children": 5, "teens": 1, "adults": 2},
	})
	expectStatus(t, rec, http.StatusCreated)
	meal := decodeBody[plannedMealResponse](t, rec)
	if meal.MealType != planning.Dinner || meal.Date != "2025-07-03" || meal.RecipeName != "Chicken with rice" {
		t.Fatalf("unexpected planned meal: %+v", meal)
	}
	if meal.Attendance == nil || meal.Attendance.Total() != 8 {
		t.Fatalf("expected explicit attendance, got %+v", meal.Attendance)
	}

	bad := []map[string]any{
		{"date": "2025-07-03", "recipe_id": 2, "meal_type": "brunch"},
		{"date": "2025-07-03", "recipe_id": 999, "meal_type": "lunch"},
		{"recipe_id": 2, "meal_type": "lunch"},
		{"date": "2025-07-03", "recipe_id": 2, "meal_type": "lunch", "attendance": map[string]int{"adults": -2}},
	}
	for _, body := range bad {
		rec := doJSON(t, CampResource, http.MethodPost, "/api/camps/1/meals", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d: %s", body, rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, CampResource, http.MethodPost, "/api/camps/999/meals", map[string]any{"date": "2025-07-03", "recipe_id": 2, "meal_type": "lunch"})
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/meals?date=2025-07-01", nil)
	expectStatus(t, rec, http.StatusOK)
	dayOne := decodeBody[[]plannedMealResponse](t, rec)
	if len(dayOne) != 3 || dayOne[0].MealType != planning.Breakfast || dayOne[2].MealType != planning.AfternoonSnack {
		t.Fatalf("unexpected meals for the first day: %+v", dayOne)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/meals", nil)
	expectStatus(t, rec, http.StatusOK)
	if all := decodeBody[[]plannedMealResponse](t, rec); len(all) != 5 {
		t.Fatalf("expected five planned meals, got %d", len(all))
	}

	path := fmt.Sprintf("/api/meals/%d", meal.ID)
	rec = doJSON(t, PlannedMealResource, http.MethodPut, path+"/attendance", map[string]int{"children": -1})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, PlannedMealResource, http.MethodPut, path+"/attendance", map[string]int{"children": 7, "teens": 0, "adults": 1})
	expectStatus(t, rec, http.StatusOK)
	if updated := decodeBody[plannedMealResponse](t, rec); updated.Attendance.Children != 7 || updated.Attendance.Teens != 0 {
		t.Fatalf("expected attendance to be replaced, got %+v", updated.Attendance)
	}

	rec = doJSON(t, PlannedMealResource, http.MethodPatch, path, map[string]any{"meal_type": "lunch", "recipe_id": 3})
	expectStatus(t, rec, http.StatusOK)
	if updated := decodeBody[plannedMealResponse](t, rec); updated.MealType != planning.Lunch || updated.RecipeName != "Fruit snack" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	rec = doJSON(t, PlannedMealResource, http.MethodPatch, path, map[string]any{"date": "2025-07-04"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, PlannedMealResource, http.MethodDelete, path, nil)
	expectStatus(t, rec, http.StatusNoContent)
	rec = doJSON(t, PlannedMealResource, http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = doJSON(t, PlannedMealResource, http.MethodPut, "/api/meals/999/attendance", map[string]int{"adults": 1})
	expectStatus(t, rec, http.StatusNotFound)
}

func findItem(t *testing.T, items []planning.ShoppingListItem, name string) planning.ShoppingListItem {
	t.Helper()
	for _, item := range items {
		if item.IngredientName == name {
			return item
		}
	}
	t.Fatalf("item %q not found in %+v", name, items)
	return planning.ShoppingListItem{}
}

func TestShoppingListJSON(t *testing.T) {
	withTestHandlers(t)

	rec := doJSON(t, CampResource, http.MethodGet, "/api/camps/1/shopping-list?start=2025-07-01&end=2025-07-02", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decodeBody[shoppingListResponse](t, rec)
	if list.CampName != "Summer Camp 2025" || list.StartDate != "2025-07-01" || list.EndDate != "2025-07-02" {
		t.Fatalf("unexpected header: %+v", list)
	}
	if list.Items[0].IngredientName != "Apples" {
		t.Fatalf("expected fruit first, got %+v", list.Items[0])
	}
	if flour := findItem(t, list.Items, "Flour"); flour.TotalQuantity != 1375+1500 {
		t.Fatalf("flour = %v, want %v", flour.TotalQuantity, 1375+1500)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/shopping-list", nil)
	expectStatus(t, rec, http.StatusOK)
	if whole := decodeBody[shoppingListResponse](t, rec); whole.EndDate != "2025-07-07" {
		t.Fatalf("expected camp dates as default range, got %+v", whole)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/shopping-list?start=2025-08-01&end=2025-08-02", nil)
	expectStatus(t, rec, http.StatusOK)
	if empty := decodeBody[shoppingListResponse](t, rec); len(empty.Items) != 0 {
		t.Fatalf("expected empty list, got %+v", empty.Items)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/shopping-list?start=2025-07-02&end=2025-07-01", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/999/shopping-list?start=2025-07-01&end=2025-07-02", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/daily-shopping-list?date=2025-07-02", nil)
	expectStatus(t, rec, http.StatusOK)
	daily := decodeBody[shoppingListResponse](t, rec)
	if flour := findItem(t, daily.Items, "Flour"); flour.TotalQuantity != 1500 {
		t.Fatalf("daily flour = %v, want 1500", flour.TotalQuantity)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/daily-shopping-list", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestScheduleAndAttendanceJSON(t *testing.T) {
	withTestHandlers(t)

	rec := doJSON(t, CampResource, http.MethodGet, "/api/camps/1/schedule", nil)
	expectStatus(t, rec, http.StatusOK)
	schedule := decodeBody[[]scheduleItemResponse](t, rec)
	if len(schedule) != 4 {
		t.Fatalf("expected four meals, got %d", len(schedule))
	}
	if first := schedule[0]; first.RecipeName != "Pancakes" || first.Children != 20 || first.Date != "2025-07-01" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if last := schedule[3]; last.Date != "2025-07-02" || last.Children != 24 {
		t.Fatalf("expected defaults on the second day, got %+v", last)
	}

	rec = doJSON(t, CampResource, http.MethodGet, "/api/camps/1/attendance-summary", nil)
	expectStatus(t, rec, http.StatusOK)
	summary := decodeBody[[]attendanceItemResponse](t, rec)
	if len(summary) != 4 || summary[0].TotalPeople != 34 || summary[1].TotalPeople != 38 {
		t.Fatalf("unexpected attendance summary: %+v", summary)
	}

	rec = doJSON(t, CampResource, http.MethodPost, "/api/camps/1/schedule", nil)
	expectStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestReportPages(t *testing.T) {
	withTestHandlers(t)

	rec := httptest.NewRecorder()
	ShoppingListPage(rec, httptest.NewRequest(http.MethodGet, "/reports/shopping-list?camp_id=1&start=2025-07-01&end=2025-07-02", nil))
	expectStatus(t, rec, http.StatusOK)
	for _, token := range []string{"Summer Camp 2025", "2875.00", "<h2>Fruit</h2>"} {
		if !strings.Contains(rec.Body.String(), token) {
			t.Fatalf("expected page to contain %q: %s", token, rec.Body.String())
		}
	}

	rec = httptest.NewRecorder()
	ShoppingListPage(rec, httptest.NewRequest(http.MethodGet, "/reports/shopping-list", nil))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	ShoppingListPage(rec, httptest.NewRequest(http.MethodGet, "/reports/shopping-list?camp_id=42", nil))
	expectStatus(t, rec, http.StatusNotFound)

	rec = httptest.NewRecorder()
	SchedulePage(rec, httptest.NewRequest(http.MethodGet, "/reports/schedule?camp_id=1", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Afternoon snack") {
		t.Fatalf("expected schedule rows: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	ShoppingListPage(rec, httptest.NewRequest(http.MethodGet, "/reports/shopping-list?camp_id=1&date=2025-07-02&lang=cz", nil))
	expectStatus(t, rec, http.StatusOK)
	for _, token := range []string{"Nákupní seznam", "Tábor: Summer Camp 2025", "02.07.2025", "1500.00"} {
		if !strings.Contains(rec.Body.String(), token) {
			t.Fatalf("expected czech page to contain %q: %s", token, rec.Body.String())
		}
	}

	rec = httptest.NewRecorder()
	SchedulePage(rec, httptest.NewRequest(http.MethodGet, "/reports/schedule?camp_id=1&lang=cz", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Odpolední svačina") || !strings.Contains(rec.Body.String(), "Jídelníček") {
		t.Fatalf("expected czech schedule: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "/reports/shopping-list?camp_id=1") {
		t.Fatalf("expected camp links: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	Home(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	expectStatus(t, rec, http.StatusNotFound)
}

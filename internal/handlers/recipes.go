package handlers

import (
	"net/http"
	"strconv"
	"strings"

	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/internal/store"
	"campmeals/models"
)

type recipeLineResponse struct {
	ID              uint     `json:"id"`
	IngredientID    uint     `json:"ingredient_id"`
	IngredientName  string   `json:"ingredient_name,omitempty"`
	BaseQuantity    float64  `json:"base_quantity"`
	Unit            string   `json:"unit"`
	ChildMultiplier *float64 `json:"child_multiplier"`
	TeenMultiplier  *float64 `json:"teen_multiplier"`
	AdultMultiplier *float64 `json:"adult_multiplier"`
	Notes           string   `json:"notes,omitempty"`
}

type recipeResponse struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Instructions string               `json:"instructions"`
	BaseServings int                  `json:"base_servings"`
	Ingredients  []recipeLineResponse `json:"ingredients,omitempty"`
}

type recipeLineRequest struct {
	IngredientID    uint     `json:"ingredient_id"`
	BaseQuantity    float64  `json:"base_quantity"`
	Unit            string   `json:"unit"`
	ChildMultiplier *float64 `json:"child_multiplier"`
	TeenMultiplier  *float64 `json:"teen_multiplier"`
	AdultMultiplier *float64 `json:"adult_multiplier"`
	Notes           string   `json:"notes"`
}

type recipeRequest struct {
	Name         *string              `json:"name"`
	Instructions *string              `json:"instructions"`
	BaseServings *int                 `json:"base_servings"`
	Ingredients  *[]recipeLineRequest `json:"ingredients"`
}

type scaledLineResponse struct {
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Unit           string  `json:"unit"`
	Quantity       float64 `json:"quantity"`
}

type scaledRecipeResponse struct {
	RecipeID   uint                 `json:"recipe_id"`
	Name       string               `json:"name"`
	Attendance planning.Attendance  `json:"attendance"`
	Lines      []scaledLineResponse `json:"lines"`
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Instructions: recipe.Instructions,
		BaseServings: recipe.BaseServings,
	}
	for _, line := range recipe.Ingredients {
		projected := recipeLineResponse{
			ID:              line.ID,
			IngredientID:    line.IngredientID,
			BaseQuantity:    line.BaseQuantity,
			Unit:            line.Unit,
			ChildMultiplier: line.ChildMultiplier,
			TeenMultiplier:  line.TeenMultiplier,
			AdultMultiplier: line.AdultMultiplier,
			Notes:           line.Notes,
		}
		if line.Ingredient != nil {
			projected.IngredientName = line.Ingredient.Name
		}
		resp.Ingredients = append(resp.Ingredients, projected)
	}
	return resp
}

func (l recipeLineRequest) model() models.RecipeIngredient {
	return models.RecipeIngredient{
		IngredientID:    l.IngredientID,
		BaseQuantity:    l.BaseQuantity,
		Unit:            strings.TrimSpace(l.Unit),
		ChildMultiplier: l.ChildMultiplier,
		TeenMultiplier:  l.TeenMultiplier,
		AdultMultiplier: l.AdultMultiplier,
		Notes:           l.Notes,
	}
}

func recipeLines(lines []recipeLineRequest) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.model())
	}
	return out
}

// RecipeResource serves /api/recipes, /api/recipes/{id} and /api/recipes/{id}/scaled.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	segments := pathSegments(r.URL.Path, "/api/recipes")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			createRecipe(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := parseID(segments[0])
	if err != nil || len(segments) > 2 {
		applog.Debug(r.Context(), "invalid recipe path", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	if len(segments) == 2 {
		if segments[1] != "scaled" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		scaleRecipe(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		recipe, err := catalog.GetRecipeWithIngredients(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "load recipe")
			return
		}
		writeJSON(w, http.StatusOK, projectRecipe(recipe))
	case http.MethodPut, http.MethodPatch:
		updateRecipe(w, r, id)
	case http.MethodDelete:
		if err := catalog.DeleteRecipe(r.Context(), id); err != nil {
			writeStoreError(w, r, err, "delete recipe")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := catalog.ListRecipes(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "load recipes")
		return
	}
	responses := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, projectRecipe(recipe))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createRecipe(w http.ResponseWriter, r *http.Request) {
	var payload recipeRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	recipe := models.Recipe{BaseServings: 1}
	if payload.Name != nil {
		recipe.Name = *payload.Name
	}
	if payload.Instructions != nil {
		recipe.Instructions = *payload.Instructions
	}
	if payload.BaseServings != nil {
		recipe.BaseServings = *payload.BaseServings
	}
	if payload.Ingredients != nil {
		recipe.Ingredients = recipeLines(*payload.Ingredients)
	}

	created, err := catalog.CreateRecipe(r.Context(), recipe)
	if err != nil {
		writeStoreError(w, r, err, "create recipe")
		return
	}
	applog.Info(r.Context(), "recipe created", "id", created.ID, "lines", len(created.Ingredients))
	writeJSON(w, http.StatusCreated, projectRecipe(created))
}

func updateRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	var payload recipeRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	update := store.RecipeUpdate{
		Name:         payload.Name,
		Instructions: payload.Instructions,
		BaseServings: payload.BaseServings,
	}
	if payload.Ingredients != nil {
		lines := recipeLines(*payload.Ingredients)
		update.Ingredients = &lines
	}

	recipe, err := catalog.UpdateRecipe(r.Context(), id, update)
	if err != nil {
		writeStoreError(w, r, err, "update recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(recipe))
}

// scaleRecipe previews the quantities of one recipe for the headcount in the query.
func scaleRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	attendance, err := attendanceFromQuery(r)
	if err != nil {
		writeStoreError(w, r, err, "scale recipe")
		return
	}
	recipe, err := catalog.GetRecipeWithIngredients(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "scale recipe")
		return
	}

	resp := scaledRecipeResponse{RecipeID: recipe.ID, Name: recipe.Name, Attendance: attendance}
	for _, line := range models.Lines(recipe.Ingredients) {
		resp.Lines = append(resp.Lines, scaledLineResponse{
			IngredientID:   line.IngredientID,
			IngredientName: line.IngredientName,
			Unit:           line.Unit,
			Quantity:       planning.RequiredQuantityFor(line, recipe.BaseServings, attendance),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func attendanceFromQuery(r *http.Request) (planning.Attendance, error) {
	query := r.URL.Query()
	counts := make([]int, 0, 3)
	for _, field := range []string{"children", "teens", "adults"} {
		value := strings.TrimSpace(query.Get(field))
		if value == "" {
			counts = append(counts, 0)
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return planning.Attendance{}, &planning.ValidationError{Field: field, Message: "must be a whole number"}
		}
		counts = append(counts, n)
	}
	return planning.NewAttendance(counts[0], counts[1], counts[2])
}

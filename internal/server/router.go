package server

import (
	"context"
	"net/http"
	"time"

	"campmeals/internal/handlers"
	applog "campmeals/internal/log"
)

const (
	loginAttempts = 10
	loginWindow   = time.Minute
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")

	limiter := newRateLimiter()
	mux.Handle("/login", limitLogin(limiter, loginAttempts, loginWindow)(http.HandlerFunc(handlers.Login)))
	applog.Debug(context.Background(), "route registered", "path", "/login", "attempts", loginAttempts)
	mux.HandleFunc("/logout", handlers.Logout)
	applog.Debug(context.Background(), "route registered", "path", "/logout")

	resources := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/api/categories", handlers.CategoryResource},
		{"/api/ingredients", handlers.IngredientResource},
		{"/api/recipes", handlers.RecipeResource},
		{"/api/camps", handlers.CampResource},
		{"/api/meals", handlers.PlannedMealResource},
	}
	for _, resource := range resources {
		protected := handlers.RequireAuthentication(resource.handler)
		mux.Handle(resource.path, protected)
		mux.Handle(resource.path+"/", protected)
		applog.Debug(context.Background(), "route registered", "path", resource.path, "protected", true)
	}

	mux.Handle("/reports/shopping-list", handlers.RequireAuthentication(http.HandlerFunc(handlers.ShoppingListPage)))
	applog.Debug(context.Background(), "route registered", "path", "/reports/shopping-list", "protected", true)
	mux.Handle("/reports/schedule", handlers.RequireAuthentication(http.HandlerFunc(handlers.SchedulePage)))
	applog.Debug(context.Background(), "route registered", "path", "/reports/schedule", "protected", true)

	mux.Handle("/", handlers.RequireAuthentication(http.HandlerFunc(handlers.Home)))
	applog.Debug(context.Background(), "route registered", "path", "/", "protected", true)
	return mux
}

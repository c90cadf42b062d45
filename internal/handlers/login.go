package handlers

import (
	"net/http"
	"strings"

	applog "campmeals/internal/log"
	"campmeals/internal/views"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login renders the sign-in form and processes sign-in submissions. JSON submissions get
// a JSON answer instead of a redirect.
func Login(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling login request", "method", r.Method)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToHome(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderLogin(w, r, http.StatusOK, message)
	case http.MethodPost:
		if sessionManager == nil || len(passwordHash) == 0 {
			applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}

		jsonRequest := strings.Contains(r.Header.Get("Content-Type"), "application/json")
		password := ""
		if jsonRequest {
			var payload loginRequest
			if !decodeJSON(w, r, &payload) {
				return
			}
			password = payload.Password
		} else {
			if err := r.ParseForm(); err != nil {
				applog.Debug(r.Context(), "failed to parse login form", "error", err)
				http.Error(w, "invalid form submission", http.StatusBadRequest)
				return
			}
			password = r.PostFormValue("password")
		}

		if password == "" {
			loginFailed(w, r, jsonRequest, "Password is required.")
			return
		}

		if !authenticate(r, password) {
			applog.Info(r.Context(), "organizer login failed")
			message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			if message == "" {
				message = "We were unable to sign you in. Please try again."
			}
			loginFailed(w, r, jsonRequest, message)
			return
		}

		applog.Info(r.Context(), "organizer logged in")
		if jsonRequest {
			writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
			return
		}
		redirectToHome(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func loginFailed(w http.ResponseWriter, r *http.Request, jsonRequest bool, message string) {
	if jsonRequest {
		writeJSONError(w, http.StatusUnauthorized, message)
		return
	}
	renderLogin(w, r, http.StatusUnauthorized, message)
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.Login(message).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render login component", "error", err)
	}
}

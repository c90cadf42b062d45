package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func protectedMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", Login)
	mux.HandleFunc("/logout", Logout)
	mux.Handle("/api/", RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})))
	mux.Handle("/reports/", RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	return sessionManager.LoadAndSave(mux)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionManager.Cookie.Name {
			return cookie
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

func TestRequireAuthenticationRejectsAnonymous(t *testing.T) {
	withTestHandlers(t)
	handler := protectedMux()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/camps", nil))
	expectStatus(t, rec, http.StatusUnauthorized)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/shopping-list", nil))
	expectStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestLoginFormFlow(t *testing.T) {
	withTestHandlers(t)
	handler := protectedMux()

	form := url.Values{"password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
	if !strings.Contains(rec.Body.String(), "Invalid password") {
		t.Fatalf("expected invalid password message, got %s", rec.Body.String())
	}

	form.Set("password", testPassword)
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	cookie := sessionCookie(t, rec)

	req = httptest.NewRequest(http.MethodGet, "/api/camps", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusSeeOther)

	req = httptest.NewRequest(http.MethodGet, "/api/camps", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestLoginJSON(t *testing.T) {
	withTestHandlers(t)
	handler := protectedMux()

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"`+testPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	if body := decodeBody[map[string]bool](t, rec); !body["authenticated"] {
		t.Fatalf("expected authenticated response, got %v", body)
	}
}

func TestLoginRendersForm(t *testing.T) {
	withTestHandlers(t)
	handler := protectedMux()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `name="password"`) {
		t.Fatalf("expected login form, got %s", rec.Body.String())
	}
}

func TestLoginUnavailableWithoutSession(t *testing.T) {
	originalSession, originalDB, originalHash := sessionManager, database, passwordHash
	Configure(nil, nil, nil)
	t.Cleanup(func() { Configure(originalSession, originalDB, originalHash) })

	rec := httptest.NewRecorder()
	Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	expectStatus(t, rec, http.StatusServiceUnavailable)

	if ActiveSession(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatal("expected inactive session when manager is nil")
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret", "")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte("secret")); err != nil {
		t.Fatalf("generated hash does not match: %v", err)
	}

	again, err := HashPassword("ignored", string(hash))
	if err != nil {
		t.Fatalf("HashPassword with configured hash returned error: %v", err)
	}
	if string(again) != string(hash) {
		t.Fatal("expected configured hash to be used as is")
	}

	if _, err := HashPassword("", "not-a-bcrypt-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := HashPassword("", ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

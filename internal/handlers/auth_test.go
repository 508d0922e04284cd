// auth_test.go contains integration tests for unlocking a project with its
// access key. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"docstudio/internal/middleware"
	"docstudio/internal/session"
)

func loginRequest(ref, key string) *http.Request {
	form := url.Values{"access_key": {key}}
	req := httptest.NewRequest(http.MethodPost, "/project/"+ref+"/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withChiURLParam(req, "ref", ref)
}

func TestLoginPage_ReturnsHTML(t *testing.T) {
	env := newTestEnv(t)
	ref := testRef()

	rec := httptest.NewRecorder()
	env.Auth.LoginPage(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/project/"+ref+"/login", nil), "ref", ref))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
}

func TestLoginPage_UnlockedRedirectsToConnect(t *testing.T) {
	env := newTestEnv(t)
	ref := testRef()

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/project/"+ref+"/login", nil), "ref", ref)
	req = req.WithContext(middleware.WithSession(req.Context(), &session.Data{ProjectRef: ref}))
	rec := httptest.NewRecorder()
	env.Auth.LoginPage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/project/"+ref+"/connect" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestLoginPage_OtherProjectSessionShowsForm(t *testing.T) {
	env := newTestEnv(t)
	ref := testRef()

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/project/"+ref+"/login", nil), "ref", ref)
	req = req.WithContext(middleware.WithSession(req.Context(), &session.Data{ProjectRef: testRef()}))
	rec := httptest.NewRecorder()
	env.Auth.LoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestLoginSubmit_Success(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env)

	rec := httptest.NewRecorder()
	env.Auth.LoginSubmit(rec, loginRequest(p.Ref, testAccessKey))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/project/"+p.Ref+"/connect" {
		t.Errorf("Location: got %q", loc)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	data, err := env.Sessions.Get(req.Context(), req)
	if err != nil || data == nil {
		t.Fatalf("session get: %v", err)
	}
	if data.ProjectRef != p.Ref {
		t.Errorf("ProjectRef: got %q, want %q", data.ProjectRef, p.Ref)
	}
}

func TestLoginSubmit_Rejected(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env)

	tests := []struct {
		name string
		ref  string
		key  string
		want string
	}{
		{"wrong key", p.Ref, "nope", "Invalid access key."},
		{"unknown project", testRef(), testAccessKey, "Invalid access key."},
		{"empty key", p.Ref, "   ", "Access key is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Auth.LoginSubmit(rec, loginRequest(tt.ref, tt.key))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body should contain %q", tt.want)
			}
			for _, c := range rec.Result().Cookies() {
				if c.Name == session.CookieName && c.MaxAge > 0 {
					t.Error("no session should be opened")
				}
			}
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ref := testRef()
	cookie, _ := openSession(t, env, ref)

	req := httptest.NewRequest(http.MethodPost, "/project/"+ref+"/logout", nil)
	req.AddCookie(cookie)
	req = withChiURLParam(req, "ref", ref)
	rec := httptest.NewRecorder()
	env.Auth.Logout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	data, _ := env.Sessions.Get(req.Context(), req)
	if data != nil {
		t.Error("session should be gone after logout")
	}
}

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := New(Config{
		Username: "admin",
		Password: "hunter2",
		Secret:   "test-secret",
		TokenTTL: ttl,
	})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return svc
}

func TestLoginAndAuthorizeRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	username, err := svc.Authorize(token)
	if err != nil {
		t.Fatalf("Authorize err: %v", err)
	}
	if username != "admin" {
		t.Fatalf("expected username admin, got %s", username)
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, badPassErr := svc.Login("admin", "wrong")
	_, badUserErr := svc.Login("nobody", "hunter2")

	if !errors.Is(badPassErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", badPassErr)
	}
	if !errors.Is(badUserErr, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", badUserErr)
	}
	if badPassErr.Error() != badUserErr.Error() {
		t.Fatalf("failure modes distinguishable: %q vs %q", badPassErr, badUserErr)
	}
}

func TestAuthorizeExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	token, err := svc.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	if _, err := svc.Authorize(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestAuthorizeMalformedToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Authorize(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}

func TestAuthorizeRejectsForeignSignature(t *testing.T) {
	issuer := newTestService(t, time.Hour)
	verifier, err := New(Config{Username: "admin", Password: "hunter2", Secret: "other-secret"})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}

	token, err := issuer.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	if _, err := verifier.Authorize(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestMiddlewareRejectsBadHeaders(t *testing.T) {
	svc := newTestService(t, time.Hour)

	called := false
	guarded := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	cases := map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc123",
		"empty token": "Bearer ",
		"garbage":     "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()

		guarded.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.Code)
		}
	}
	if called {
		t.Fatal("handler ran despite failed auth")
	}
}

func TestMiddlewarePassesIdentity(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	var gotAdmin string
	guarded := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdmin = AdminFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	guarded.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotAdmin != "admin" {
		t.Fatalf("expected admin identity in context, got %q", gotAdmin)
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memberhub/memberhub-backend/internal/identity"
	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
)

type stubVerifier struct {
	ident *identity.Identity
	err   error
}

func (s *stubVerifier) VerifyToken(_ context.Context, _ string) (*identity.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ident, nil
}

func authedHandler(t *testing.T, captured *string, admin *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = UserIDFromContext(r.Context())
		*admin = IsAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	var userID string
	var admin bool
	handler := Auth(&stubVerifier{}, nil)(authedHandler(t, &userID, &admin))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/user", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "No authorization token" {
		t.Fatalf("unexpected message %q", body["error"])
	}
	if userID != "" {
		t.Fatalf("handler must not run without credentials")
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	var userID string
	var admin bool
	verifier := &stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")}
	handler := Auth(verifier, nil)(authedHandler(t, &userID, &admin))

	r := httptest.NewRequest("GET", "/user", nil)
	r.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
	if userID != "" {
		t.Fatalf("handler must not run with a bad token")
	}
}

func TestAuthSeedsContext(t *testing.T) {
	var userID string
	var admin bool
	verifier := &stubVerifier{ident: &identity.Identity{ID: "u1", Admin: true}}
	handler := Auth(verifier, nil)(authedHandler(t, &userID, &admin))

	r := httptest.NewRequest("GET", "/user", nil)
	r.Header.Set("Authorization", "Bearer tok-abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	if userID != "u1" || !admin {
		t.Fatalf("context not seeded: userID=%q admin=%v", userID, admin)
	}
}

func TestRequireAdminBlocksNonAdmins(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/admin/users", nil)
	r = r.WithContext(WithUserID(r.Context(), "u1"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", w.Code)
	}
}

func TestRequireAdminPassesAdmins(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/admin/users", nil)
	r = r.WithContext(WithAdmin(WithUserID(r.Context(), "u1"), true))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
}

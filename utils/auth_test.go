package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestOptionalAuthResolvesUser(t *testing.T) {
	var got string
	handler := OptionalAuth(testSecret, func(w http.ResponseWriter, r *http.Request) {
		got = UserID(r)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-1"))
	handler(httptest.NewRecorder(), r)
	if got != "user-1" {
		t.Errorf("got user %q, want user-1", got)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	called := false
	handler := OptionalAuth(testSecret, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if UserID(r) != "" {
			t.Errorf("anonymous request should carry no user, got %q", UserID(r))
		}
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("anonymous request should proceed")
	}
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	handler := OptionalAuth(testSecret, func(w http.ResponseWriter, r *http.Request) {
		if UserID(r) != "" {
			t.Errorf("forged token should not resolve, got %q", UserID(r))
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "attacker"))
	handler(httptest.NewRecorder(), r)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(testSecret, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", w.Code)
	}
}

func TestRequireAuthPassesValidToken(t *testing.T) {
	var got string
	handler := RequireAuth(testSecret, func(w http.ResponseWriter, r *http.Request) {
		got = UserID(r)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-2"))
	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want 200", w.Code)
	}
	if got != "user-2" {
		t.Errorf("got user %q, want user-2", got)
	}
}

func TestRandomHexLengthAndUniqueness(t *testing.T) {
	a := RandomHex(16)
	b := RandomHex(16)
	if len(a) != 32 {
		t.Errorf("16 bytes should encode to 32 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("two tokens should not collide")
	}
}

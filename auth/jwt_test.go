package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestValidate_HMAC(t *testing.T) {
	v := NewValidator("s3cret", "")
	token := signHS256(t, "s3cret", jwt.MapClaims{
		"sub":  "user-1",
		"name": "Ada Lovelace",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if UserIDFromClaims(claims) != "user-1" {
		t.Errorf("expected sub user-1, got %q", UserIDFromClaims(claims))
	}
	if FirstNameFromClaims(claims) != "Ada" {
		t.Errorf("expected first name Ada, got %q", FirstNameFromClaims(claims))
	}
}

func TestValidate_RejectsBadTokens(t *testing.T) {
	v := NewValidator("s3cret", "")

	wrongKey := signHS256(t, "other", jwt.MapClaims{"sub": "u"})
	if _, err := v.Validate(wrongKey); err == nil {
		t.Error("expected signature error")
	}

	expired := signHS256(t, "s3cret", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})
	if _, err := v.Validate(expired); err == nil {
		t.Error("expected expired token to be rejected")
	}

	if _, err := v.Validate("not-a-token"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}

func TestValidate_NotConfigured(t *testing.T) {
	v := NewValidator("", "")
	if v.Enabled() {
		t.Error("validator without secret or base URL should be disabled")
	}
	if _, err := v.Validate("x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	var nilValidator *Validator
	if nilValidator.Enabled() {
		t.Error("nil validator should be disabled")
	}
}

func TestFirstNameFromClaims(t *testing.T) {
	tests := []struct {
		claims jwt.MapClaims
		want   string
	}{
		{jwt.MapClaims{"name": "  Grace   Hopper "}, "Grace"},
		{jwt.MapClaims{"name": ""}, DefaultName},
		{jwt.MapClaims{"name": 42}, DefaultName},
		{jwt.MapClaims{}, DefaultName},
	}
	for _, tt := range tests {
		if got := FirstNameFromClaims(tt.claims); got != tt.want {
			t.Errorf("FirstNameFromClaims(%v) = %q, want %q", tt.claims, got, tt.want)
		}
	}
}

func TestUserIDFromClaims(t *testing.T) {
	if got := UserIDFromClaims(jwt.MapClaims{"id": "abc"}); got != "abc" {
		t.Errorf("expected fallback to id claim, got %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{"sub": "s", "id": "i"}); got != "s" {
		t.Errorf("expected sub to win, got %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{}); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc.def":  "abc.def",
		"bearer  xyz ":    "xyz",
		"Basic dXNlcjpw":  "",
		"":                "",
		"Bearer":          "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

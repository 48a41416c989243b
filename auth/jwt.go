package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultName is used when a token carries no usable name.
const DefaultName = "Player"

var (
	ErrNotConfigured = errors.New("auth: no JWT secret or auth base URL configured")
	ErrInvalidClaims = errors.New("auth: invalid token claims")
)

// Validator checks bearer tokens. With a secret it accepts HMAC-signed tokens;
// otherwise it fetches the signing keys from the JWKS endpoint under baseURL.
type Validator struct {
	secret  []byte
	baseURL string

	mu   sync.Mutex
	jwks keyfunc.Keyfunc
}

// NewValidator creates a Validator. Both arguments may be empty, in which case
// every token is rejected with ErrNotConfigured.
func NewValidator(secret, baseURL string) *Validator {
	v := &Validator{baseURL: strings.TrimRight(baseURL, "/")}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v
}

// Enabled reports whether tokens can be validated at all.
func (v *Validator) Enabled() bool {
	return v != nil && (len(v.secret) > 0 || v.baseURL != "")
}

// Validate parses and verifies tokenString and returns its claims.
func (v *Validator) Validate(tokenString string) (jwt.MapClaims, error) {
	if !v.Enabled() {
		return nil, ErrNotConfigured
	}
	var (
		token *jwt.Token
		err   error
	)
	if len(v.secret) > 0 {
		token, err = jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
			return v.secret, nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	} else {
		token, err = v.parseJWKS(tokenString)
	}
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

func (v *Validator) parseJWKS(tokenString string) (*jwt.Token, error) {
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	expectedIssuer := u.Scheme + "://" + u.Host

	jwks, err := v.keySet()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, jwks.Keyfunc,
		jwt.WithIssuer(expectedIssuer),
		jwt.WithValidMethods([]string{"EdDSA", "RS256", "ES256"}))
}

// keySet creates the JWKS client on first use and reuses it afterwards.
func (v *Validator) keySet() (keyfunc.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}
	jwks, err := keyfunc.NewDefault([]string{v.baseURL + "/.well-known/jwks.json"})
	if err != nil {
		return nil, err
	}
	v.jwks = jwks
	return jwks, nil
}

// FirstNameFromClaims returns the first word of the "name" claim, or DefaultName.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return DefaultName
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

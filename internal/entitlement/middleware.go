package entitlement

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the cookie carrying the unlock token.
const CookieName = "unlocked"

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

const unlockedKey contextKey = "unlocked"

// TokenValidator validates unlock tokens.
type TokenValidator interface {
	Validate(tokenString string) (*Claims, error)
}

// WithUnlocked returns a copy of ctx carrying the unlocked flag.
func WithUnlocked(ctx context.Context, unlocked bool) context.Context {
	return context.WithValue(ctx, unlockedKey, unlocked)
}

// Unlocked reports whether the request behind ctx has unlocked the full results.
func Unlocked(ctx context.Context) bool {
	unlocked, _ := ctx.Value(unlockedKey).(bool)
	return unlocked
}

// Middleware marks requests carrying a valid unlock token, from the unlocked
// cookie or a Bearer Authorization header, as unlocked. Requests without one
// continue locked.
func Middleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			unlocked := false
			if token := tokenFromRequest(r); token != "" && validator != nil {
				if _, err := validator.Validate(token); err == nil {
					unlocked = true
				}
			}
			next.ServeHTTP(w, r.WithContext(WithUnlocked(r.Context(), unlocked)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// Cookie builds the unlock cookie for token. Secure is set in production.
func Cookie(token string, maxAgeSeconds int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

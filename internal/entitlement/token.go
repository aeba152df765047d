package entitlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonathan/jd-matcher/internal/config"
)

// Claims represents unlock token claims.
type Claims struct {
	Unlocked bool   `json:"unlocked"`
	OrderID  string `json:"order_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates unlock tokens.
type TokenService struct {
	config config.UnlockConfig
	now    func() time.Time
}

// NewTokenService creates a token service with the given configuration.
func NewTokenService(cfg config.UnlockConfig) *TokenService {
	return &TokenService{config: cfg, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return time.Duration(s.config.ExpirationHours) * time.Hour
}

// Issue signs an unlock token for a verified order.
func (s *TokenService) Issue(orderID string) (string, error) {
	if s.config.Secret == "" {
		return "", ErrNotConfigured
	}
	now := s.now()
	claims := &Claims{
		Unlocked: true,
		OrderID:  orderID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses an unlock token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if s.config.Secret == "" {
		return nil, ErrNotConfigured
	}
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || !claims.Unlocked {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

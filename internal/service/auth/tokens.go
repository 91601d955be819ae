package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token that fails verification or is no
// longer registered.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload carried by both access and refresh
// tokens.
type Claims struct {
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the JWT pair.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager builds a manager with the two signing secrets.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// RefreshTTL exposes the refresh expiry so the token store can match
// its key TTL to the token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// IssueAccess signs a short-lived access token.
func (m *TokenManager) IssueAccess(subjectID, role, userType string) (string, error) {
	return m.sign(subjectID, role, userType, m.accessSecret, m.accessTTL)
}

// IssueRefresh signs a long-lived refresh token.
func (m *TokenManager) IssueRefresh(subjectID, role, userType string) (string, error) {
	return m.sign(subjectID, role, userType, m.refreshSecret, m.refreshTTL)
}

func (m *TokenManager) sign(subjectID, role, userType string, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		Type: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(token string) (Claims, error) {
	return m.verify(token, m.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(token string) (Claims, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *TokenManager) verify(token string, secret []byte) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

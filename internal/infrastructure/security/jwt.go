// Package security provides JWT token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SessionClaims is what the admin-token and auth-token cookies carry.
type SessionClaims struct {
	Subject string
	Role    string
	Expires time.Time
}

// GenerateSessionToken signs a session token for subject with the given role.
func GenerateSessionToken(subject, role, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"type": "session",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ParseSessionToken validates a session token and requires the given role.
func ParseSessionToken(tokenString, role, jwtSecret string) (*SessionClaims, error) {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}
	gotRole, _ := claims["role"].(string)
	if gotRole != role {
		return nil, fmt.Errorf("token role %q is not %q", gotRole, role)
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, errors.New("token has no subject")
	}
	out := &SessionClaims{Subject: subject, Role: gotRole}
	if exp, ok := claims["exp"].(float64); ok {
		out.Expires = time.Unix(int64(exp), 0).UTC()
	}
	return out, nil
}

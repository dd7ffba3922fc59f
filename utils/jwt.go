package utils

import (
	"errors"
	"strings"
	"time"

	"fieldserve/config"
	"fieldserve/models"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "dev-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given principal. Token issuance
// normally happens in the auth service; this exists for tooling and tests.
func GenerateToken(principal models.Principal, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  principal.ID,
		"role": string(principal.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a bearer token and returns the principal
// it asserts. The role claim must be one of the known roles.
func ValidateToken(tokenString string) (*models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	roleStr, _ := claims["role"].(string)

	switch role := models.Role(strings.ToUpper(roleStr)); role {
	case models.RoleCustomer, models.RoleTechnician, models.RoleAdmin:
		return &models.Principal{ID: sub, Role: role}, nil
	default:
		return nil, errors.New("token does not contain a valid 'role' claim")
	}
}

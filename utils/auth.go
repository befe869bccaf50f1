package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Token roles and purposes
const (
	RoleCustomer         = "customer"
	RoleAdmin            = "admin"
	PurposePasswordReset = "password_reset"
)

// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
var ErrInvalidToken = errors.New("invalid token")

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenClaims is the decoded subset of a signed token
type TokenClaims struct {
	Subject string
	Role    string
	Purpose string
}

// GenerateToken signs a token for subject carrying the role claim
func GenerateToken(secret, subject, role string, ttl time.Duration) (string, error) {
	return signToken(secret, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	})
}

// GeneratePurposeToken signs a short-lived token usable for one purpose only
func GeneratePurposeToken(secret, subject, purpose string, ttl time.Duration) (string, error) {
	return signToken(secret, jwt.MapClaims{
		"sub":     subject,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	})
}

func signToken(secret string, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tokenString, nil
}

// ValidateToken validates a signed token and returns its claims
func ValidateToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, _ := claims["role"].(string)
	purpose, _ := claims["purpose"].(string)
	return &TokenClaims{Subject: subject, Role: role, Purpose: purpose}, nil
}

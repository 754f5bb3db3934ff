package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token kinds carried in the "kind" claim. Refresh tokens are only accepted
// by the refresh endpoint, access tokens everywhere else.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey        string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	FullNames string `json:"full_names,omitempty"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// GenerateAccessToken creates a short-lived access token carrying identity and role claims
func (j *JWTUtil) GenerateAccessToken(userID uint, email, role, fullNames string) (string, error) {
	return j.generate(userID, email, role, fullNames, KindAccess, j.config.AccessExpiration)
}

// GenerateRefreshToken creates a long-lived refresh token bound to the same identity
func (j *JWTUtil) GenerateRefreshToken(userID uint, email string) (string, error) {
	return j.generate(userID, email, "", "", KindRefresh, j.config.RefreshExpiration)
}

func (j *JWTUtil) generate(userID uint, email, role, fullNames, kind string, expiration time.Duration) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := UserClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		FullNames: fullNames,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

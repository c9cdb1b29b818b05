package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/cache"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrRevoked   = errors.New("token has been revoked")
	ErrWrongType = errors.New("wrong token type")
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

func sign(userID uint, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateToken creates a signed access token.
func GenerateToken(userID uint, role string) (string, error) {
	return sign(userID, role, TypeAccess, AccessTTL)
}

// GenerateRefreshToken creates a longer-lived token used to refresh access.
func GenerateRefreshToken(userID uint, role string) (string, error) {
	return sign(userID, role, TypeRefresh, RefreshTTL)
}

// IssuePair creates an access and refresh token for the user.
func IssuePair(userID uint, role string) (TokenPair, error) {
	access, err := GenerateToken(userID, role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateRefreshToken(userID, role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(AccessTTL.Seconds())}, nil
}

// ValidateToken parses t, checks its signature and expiry, and rejects
// revoked tokens.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.ID != "" && cache.Has(revokedKey(claims.ID)) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// ValidateAccess is ValidateToken restricted to access tokens.
func ValidateAccess(t string) (*Claims, error) {
	c, err := ValidateToken(t)
	if err != nil {
		return nil, err
	}
	if c.Type != TypeAccess {
		return nil, ErrWrongType
	}
	return c, nil
}

// ValidateRefresh is ValidateToken restricted to refresh tokens.
func ValidateRefresh(t string) (*Claims, error) {
	c, err := ValidateToken(t)
	if err != nil {
		return nil, err
	}
	if c.Type != TypeRefresh {
		return nil, ErrWrongType
	}
	return c, nil
}

// Revoke adds the token ID to the deny-list until the token would have
// expired anyway.
func Revoke(c *Claims) error {
	if c == nil || c.ID == "" {
		return nil
	}
	ttl := time.Minute
	if c.ExpiresAt != nil {
		if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return cache.Set(revokedKey(c.ID), true, ttl)
}

func revokedKey(jti string) string { return "auth:revoked:" + jti }

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

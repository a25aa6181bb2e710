package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims carried by both token kinds. Type distinguishes access from
// refresh so one cannot be replayed as the other.
type TokenClaims struct {
	UserID string
	Role   string
	Type   string
}

func signToken(secret, userID, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"type":    tokenType,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GenerateAccessToken mints a short-lived token used on every request.
func GenerateAccessToken(secret, userID, role string) (string, error) {
	return signToken(secret, userID, role, "access", AccessTokenTTL)
}

// GenerateRefreshToken mints the long-lived token exchanged at /auth/refresh.
func GenerateRefreshToken(secret, userID, role string) (string, error) {
	return signToken(secret, userID, role, "refresh", RefreshTokenTTL)
}

// ParseToken validates signature and expiry and returns the claims.
// tokenType must match the "type" claim ("access" or "refresh").
func ParseToken(secret, tokenString, tokenType string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	typ, _ := claims["type"].(string)
	if typ != tokenType {
		return nil, fmt.Errorf("wrong token type %q", typ)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token missing user_id")
	}
	role, _ := claims["role"].(string)

	return &TokenClaims{UserID: userID, Role: role, Type: typ}, nil
}

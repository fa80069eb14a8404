package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/imrajeevnayan/GeminiClone/internal/common"
)

type claims struct {
	AccountID string `json:"uid"`
	jwt.RegisteredClaims
}

// SignToken issues a bearer token for the browser client.
func SignToken(accountID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the token signature and expiry and returns the account id.
func ParseToken(tokenString, secret string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.Validationf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", common.Validationf("invalid token")
	}
	return c.AccountID, nil
}

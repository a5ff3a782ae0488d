package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidCookie = errors.New("session cookie is invalid")

type CookieSignerInterface interface {
	Sign(sessionToken string) (string, error)
	Verify(cookieValue string) (string, error)
}

// CookieSigner wraps a session token in an HS256 JWT so a forged or
// tampered cookie is rejected before the session store is consulted.
// The token travels in the jti claim.
type CookieSigner struct {
	secret []byte
	now    func() time.Time
}

func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (c *CookieSigner) Sign(sessionToken string) (string, error) {
	claims := &jwt.StandardClaims{
		Id:       sessionToken,
		IssuedAt: c.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

func (c *CookieSigner) Verify(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(cookieValue, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", ErrInvalidCookie
	}

	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid || claims.Id == "" {
		return "", ErrInvalidCookie
	}
	return claims.Id, nil
}

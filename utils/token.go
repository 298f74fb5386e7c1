package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/conectados/models"
)

// TokenIssuer signs HS256 access and refresh tokens.
type TokenIssuer struct {
	Secret     []byte
	TTL        time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func (ti TokenIssuer) now() time.Time {
	if ti.Now != nil {
		return ti.Now()
	}
	return time.Now()
}

// Issue returns an access token carrying id, email and active role, plus a
// longer lived refresh token carrying only the identity.
func (ti TokenIssuer) Issue(u *models.User) (access, refresh string, err error) {
	now := ti.now()
	claims := jwt.MapClaims{
		"id":    u.ID,
		"email": u.Email,
		"role":  string(u.ActiveRole),
		"exp":   now.Add(ti.TTL).Unix(),
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.Secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshClaims := jwt.MapClaims{
		"id":    u.ID,
		"email": u.Email,
		"typ":   "refresh",
		"exp":   now.Add(ti.RefreshTTL).Unix(),
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(ti.Secret)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return access, refresh, nil
}

// ParseRefresh validates a refresh token and returns the user id it names.
func (ti TokenIssuer) ParseRefresh(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.Secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid refresh token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return 0, errors.New("not a refresh token")
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, errors.New("invalid user id in token")
	}
	return uint(id), nil
}

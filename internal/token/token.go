package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	RoleAdmin  = "ADMIN"
	RoleDriver = "DRIVER"
	RoleParent = "PARENT"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated principal carried by a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) Sign(userID, email, role string) (string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(m.ttl).Unix(),
	})
	return accessToken.SignedString(m.secret)
}

// Verify checks the signature and expiry and returns the embedded identity.
// The same verification serves the HTTP middleware and the websocket admission,
// so the two admission paths cannot drift apart.
func (m *Manager) Verify(tokenString string) (Identity, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	tokenJWT, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if !tokenJWT.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := tokenJWT.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrInvalidToken
	}

	role, ok := claims["role"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	if time.Now().Unix() > int64(exp) {
		return Identity{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return Identity{
		UserID: userID,
		Email:  email,
		Role:   role,
	}, nil
}

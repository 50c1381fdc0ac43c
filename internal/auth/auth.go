// Package auth resolves bearer credentials into a typed principal. Role
// checks downstream work on the Principal value; tokens are decoded exactly
// once per request.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tablebook/internal/apperr"
)

// Role of an authenticated caller.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the verified identity and role of a caller.
type Principal struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the principal may call admin operations.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Config for token issuance and verification.
type Config struct {
	Secret        string
	TokenTTL      time.Duration
	AdminLogin    string
	AdminPassword string
	AdminUserIDs  []string
}

// Resolver issues and verifies HS256 bearer tokens.
type Resolver struct {
	cfg Config
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Issue mints a token for the given principal.
func (r *Resolver) Issue(p Principal) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  p.ID,
		"role": string(p.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(r.cfg.TokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(r.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Resolve verifies a raw token and returns the principal it carries.
func (r *Resolver) Resolve(raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(r.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims: %w", apperr.ErrUnauthorized)
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, fmt.Errorf("missing subject: %w", apperr.ErrUnauthorized)
	}
	if role != string(RoleAdmin) {
		role = string(RoleUser)
	}

	return &Principal{ID: sub, Role: Role(role)}, nil
}

// CheckAdminLogin validates the configured operator credentials.
func (r *Resolver) CheckAdminLogin(login, password string) bool {
	if r.cfg.AdminLogin == "" || r.cfg.AdminPassword == "" {
		return false
	}
	return login == r.cfg.AdminLogin && password == r.cfg.AdminPassword
}

// RoleFor maps a user id to its role using the configured admin id list.
func (r *Resolver) RoleFor(userID string) Role {
	for _, id := range r.cfg.AdminUserIDs {
		if id == userID {
			return RoleAdmin
		}
	}
	return RoleUser
}

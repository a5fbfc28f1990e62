// Package auth implements the two session types of the blood bank: admin
// users (manager/staff roles) and approved hospitals. Both are HMAC-signed
// JWTs carrying an actor type so one middleware can authenticate either.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Actor identifies which kind of principal a token belongs to.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorHospital Actor = "hospital"
)

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Claims is the JWT claim set issued at login.
type Claims struct {
	jwt.RegisteredClaims
	Actor Actor  `json:"actor"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// IssueAdmin returns a signed token for an admin user with the given role.
func (t *TokenIssuer) IssueAdmin(userID uuid.UUID, name, role string) (string, error) {
	return t.sign(userID, ActorAdmin, name, role)
}

// IssueHospital returns a signed token for an approved hospital.
func (t *TokenIssuer) IssueHospital(hospitalID uuid.UUID, name string) (string, error) {
	return t.sign(hospitalID, ActorHospital, name, "")
}

func (t *TokenIssuer) sign(subject uuid.UUID, actor Actor, name, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Actor: actor,
		Name:  name,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string, returning its claims.
func (t *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

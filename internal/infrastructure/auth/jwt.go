// Package auth signs and verifies the admin session token kept in the
// session cookie.
package auth

import (
	"errors"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultLifetime = 24 * time.Hour
	clockSkew       = 30 * time.Second
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing userId in claims")
)

// Claims is the session payload. The admin ID travels as "userId".
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// ExpiresAtTime is the zero time for a token without exp
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// SessionToken is a signed token and the instant it stops being accepted
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// JWTService issues HS256 session tokens. Verification pins the algorithm
// and, when configured, the issuer.
type JWTService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

func NewJWTService(cfg config.SessionConfig) *JWTService {
	lifetime := cfg.Expiration
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	return &JWTService{secret: []byte(cfg.Secret), lifetime: lifetime, issuer: cfg.Issuer, now: time.Now}
}

func (s *JWTService) Expiration() time.Duration {
	return s.lifetime
}

// Issue signs a token for one admin
func (s *JWTService) Issue(userID uuid.UUID, username string) (*SessionToken, error) {
	issued := s.now()
	expires := issued.Add(s.lifetime)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID:   userID.String(),
		Username: username,
	}).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &SessionToken{Token: signed, ExpiresAt: expires}, nil
}

// Verify checks the signature and time claims of token and returns its
// claims. Any failure other than expiry or nbf reads as ErrInvalidToken.
func (s *JWTService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(clockSkew),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, parserOpts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	case claims.UserID == "":
		return nil, ErrMissingUserID
	}
	if _, err := claims.UserUUID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

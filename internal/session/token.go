package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mingle-social/mingle/internal/domain"
)

var errUnexpectedMethod = errors.New("unexpected signing method")

// Claims is the payload of a session token. Possession of a token with a
// valid signature and unexpired timestamps is proof of identity; nothing is
// stored server side.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256-signed session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl}
}

// Issue signs a session token for the given identity with the configured
// expiry window.
func (s *Service) Issue(email string, role domain.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate reports whether raw carries an intact signature and unexpired
// timestamps. It never returns an error: a tampered or expired token is
// simply not valid.
func (s *Service) Validate(raw string) bool {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedMethod
		}
		return s.secret, nil
	})
	return err == nil && token.Valid
}

// ExtractClaims reads the claims without verifying the signature. Callers
// must have passed the token through Validate first.
func (s *Service) ExtractClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMalformed is returned when the raw token cannot be decoded at all.
	ErrMalformed = errors.New("token malformed")
	// ErrExpired is returned for a well-formed token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers bad signatures and unexpected signing methods.
	ErrInvalid = errors.New("token invalid")
	// ErrNoSubject is returned when the subject claim is missing.
	ErrNoSubject = errors.New("token has no subject")
)

// Claims is the payload carried by an access token. Subject is the user's
// UUID string; email and role ride along for convenience but are always
// re-checked against the store before they grant anything.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the minimal user view needed to issue a token.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  string
}

type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 token for the identity and returns it together with
// the Unix expiry instant.
func (s *Service) Issue(id Identity) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// Parse verifies the signature and expiry and returns the claims. Each
// rejection reason maps to a distinct sentinel error.
func (s *Service) Parse(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrInvalid
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" {
		return nil, ErrNoSubject
	}

	return claims, nil
}

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation failure kinds. Callers branch on these with errors.Is; every
// one of them must be answered with a 401 at the HTTP boundary.
var (
	ErrExpired         = errors.New("token expired")
	ErrMalformed       = errors.New("token malformed")
	ErrMissingIdentity = errors.New("token missing user_id claim")
)

// Claims is the verified payload of an identity token. It is produced
// exactly once per request by Validate and attached to the request context;
// it is never persisted.
type Claims struct {
	RoleID int  `json:"rol_id,omitempty"`
	UserID int  `json:"user_id"`
	Kind   Kind `json:"type,omitempty"`

	jwt.RegisteredClaims
}

// Service issues and validates signed, time-limited identity tokens.
// It is a pure function of its inputs, the wall clock, and the process
// secret; safe for concurrent use.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewService creates a token service. The TTLs are assumed to be already
// clamped to sane values by the configuration layer.
func NewService(secret []byte, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the wall clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL returns the configured lifetime for a token kind.
func (s *Service) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue serializes the claims plus a computed absolute expiry
// (now UTC + TTL for the kind) and signs them with HS256.
func (s *Service) Issue(subject string, roleID, userID int, kind Kind) (string, error) {
	if userID == 0 {
		return "", ErrMissingIdentity
	}

	now := s.now().UTC()
	claims := Claims{
		RoleID: roleID,
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of a token and returns its
// claims. It fails with ErrExpired past the expiry, ErrMalformed for any
// structural or signature problem, and ErrMissingIdentity when the
// mandatory user_id claim is absent. A missing user_id is never defaulted.
func (s *Service) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	if claims.UserID == 0 {
		return nil, ErrMissingIdentity
	}

	return claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}

// Package jwt issues and verifies the HS256 access tokens the API accepts.
package jwt

import (
	"errors"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"umrahstay/internal/domain"
)

const (
	issuer = "umrahstay"
	leeway = 30 * time.Second
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrMalformedHeader   = errors.New("authorization header must be Bearer <token>")
	ErrUnsupportedSigner = errors.New("unsupported signing method")
)

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Claims carries the caller identity. Subject mirrors UserID.
type Claims struct {
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateToken signs a token for userID. Sessions are issued by the
// identity provider in production; the API itself only verifies.
func (s *Service) GenerateToken(userID int64, role domain.UserRole) (string, error) {
	if userID <= 0 || !knownRole(role) {
		return "", ErrInvalidToken
	}

	now := s.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken checks signature, issuer, and expiry, then that the subject
// and role describe a real caller.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenStr, claims, s.key,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(leeway),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) || !knownRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromHeader extracts the token from an Authorization header value.
func FromHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMalformedHeader
	}
	return token, nil
}

func (s *Service) key(t *jwtlib.Token) (any, error) {
	if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, ErrUnsupportedSigner
	}
	return s.secret, nil
}

func knownRole(r domain.UserRole) bool {
	return r == domain.RoleAdmin || r == domain.RoleUser
}

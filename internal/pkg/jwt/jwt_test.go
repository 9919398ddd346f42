package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umrahstay/internal/domain"
)

func TestService_GenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(7, "ADMIN")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).GenerateToken(7, "USER")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	svc := New("secret", -time.Minute)
	token, err := svc.GenerateToken(7, "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_GenerateToken_SetsRegisteredClaims(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken(12, domain.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "umrahstay", claims.Issuer)
	assert.Equal(t, "12", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.NotBefore)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestService_GenerateToken_RejectsUnknownCaller(t *testing.T) {
	svc := New("secret", time.Hour)

	_, err := svc.GenerateToken(0, domain.RoleUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.GenerateToken(1, "GUEST")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_RejectsForgedClaims(t *testing.T) {
	svc := New("secret", time.Hour)
	now := time.Now()
	valid := func() Claims {
		return Claims{
			UserID: 5,
			Role:   domain.RoleAdmin,
			RegisteredClaims: jwtlib.RegisteredClaims{
				Issuer:    "umrahstay",
				Subject:   "5",
				IssuedAt:  jwtlib.NewNumericDate(now),
				ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}
	sign := func(c Claims) string {
		tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte("secret"))
		require.NoError(t, err)
		return tok
	}

	_, err := svc.ValidateToken(sign(valid()))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Claims)
	}{
		{"other issuer", func(c *Claims) { c.Issuer = "elsewhere" }},
		{"subject mismatch", func(c *Claims) { c.Subject = "6" }},
		{"unknown role", func(c *Claims) { c.Role = "SUPERUSER" }},
		{"no user id", func(c *Claims) { c.UserID = 0; c.Subject = "0" }},
		{"no expiry", func(c *Claims) { c.ExpiresAt = nil }},
		{"not yet valid", func(c *Claims) { c.NotBefore = jwtlib.NewNumericDate(now.Add(time.Hour)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			_, err := svc.ValidateToken(sign(c))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("unsigned token", func(t *testing.T) {
		tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, valid()).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_ValidateToken_Leeway(t *testing.T) {
	svc := New("secret", time.Minute)
	token, err := svc.GenerateToken(3, domain.RoleUser)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Minute + 10*time.Second) }
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, err := FromHeader(tt.header)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrMalformedHeader, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}

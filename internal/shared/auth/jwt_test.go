package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("s3cret", "dev")
	require.NoError(t, err)

	tok, err := s.Sign("ops-1", "ops@exitlayer.io", RoleAdmin)
	require.NoError(t, err)

	claims, err := s.VerifyRole(tok, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "ops-1", claims.Subject)
	assert.Equal(t, "ops@exitlayer.io", claims.Email)
}

func TestVerifyRejects(t *testing.T) {
	s, err := NewSigner("s3cret", "dev")
	require.NoError(t, err)
	other, err := NewSigner("different", "dev")
	require.NoError(t, err)

	tok, err := other.Sign("ops-1", "", RoleAdmin)
	require.NoError(t, err)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = s.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func TestVerifyExpired(t *testing.T) {
	s, err := NewSigner("s3cret", "dev")
	require.NoError(t, err)
	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	tok, err := s.Sign("ops-1", "", RoleAdmin)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(defaultTTL + time.Minute) }
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRoleForbidden(t *testing.T) {
	s, err := NewSigner("s3cret", "dev")
	require.NoError(t, err)
	tok, err := s.Sign("viewer", "", "viewer")
	require.NoError(t, err)
	_, err = s.VerifyRole(tok, RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	_, err := NewSigner(" ", "production")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

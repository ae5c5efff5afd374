package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef-test-secret"

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewIssuer(secret, time.Minute)
	require.NoError(t, err)

	raw, expires, err := issuer.Issue("42", "ADMIN")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), expires, 2*time.Second)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "42", claims.UserID())
	require.Equal(t, "ADMIN", claims.Role)
}

func TestParse_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewIssuer(secret, time.Minute, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	raw, _, err := issuer.Issue("42", "USER")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = issuer.Parse(raw)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestParse_RejectsForeignTokens(t *testing.T) {
	issuer, err := NewIssuer(secret, time.Minute)
	require.NoError(t, err)
	other, err := NewIssuer("another-secret-of-enough-length", time.Minute)
	require.NoError(t, err)

	raw, _, err := other.Issue("42", "USER")
	require.NoError(t, err)
	_, err = issuer.Parse(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuer_Validates(t *testing.T) {
	_, err := NewIssuer("short", time.Minute)
	require.Error(t, err)
	_, err = NewIssuer(secret, 0)
	require.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	raw, hash, err := NewRefreshToken()
	require.NoError(t, err)
	require.NotEqual(t, raw, hash)
	require.Equal(t, hash, HashRefreshToken(raw))

	raw2, _, err := NewRefreshToken()
	require.NoError(t, err)
	require.NotEqual(t, raw, raw2)
}

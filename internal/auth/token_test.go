package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/shelterstock/shelterstock/internal/shared"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(t *testing.T, secret string) (*TokenIssuer, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	issuer, err := NewTokenIssuer(secret, time.Hour)
	require.NoError(t, err)
	return issuer.WithClock(clock.Now), clock
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer, clock := newTestIssuer(t, "secret-a")
	identity := shared.Identity{AccountID: 7, IsAdmin: true, ShelterID: 3}

	token, err := issuer.Issue(identity, 30*time.Minute)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, identity.AccountID, got.AccountID)
	require.Equal(t, identity.IsAdmin, got.IsAdmin)
	require.Equal(t, identity.ShelterID, got.ShelterID)
	require.True(t, got.ExpiresAt.Equal(clock.now.Add(30*time.Minute)))
}

func TestIssueUsesDefaultTTL(t *testing.T) {
	issuer, clock := newTestIssuer(t, "secret-a")

	token, err := issuer.Issue(shared.Identity{AccountID: 1}, 0)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, got.ExpiresAt.Equal(clock.now.Add(time.Hour)))
}

func TestVerifyExpired(t *testing.T) {
	issuer, clock := newTestIssuer(t, "secret-a")

	token, err := issuer.Issue(shared.Identity{AccountID: 7}, time.Minute)
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Minute + time.Second)
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, shared.ErrTokenExpired)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuerA, _ := newTestIssuer(t, "secret-a")
	issuerB, _ := newTestIssuer(t, "secret-b")

	token, err := issuerA.Issue(shared.Identity{AccountID: 7}, time.Minute)
	require.NoError(t, err)

	_, err = issuerB.Verify(token)
	require.ErrorIs(t, err, shared.ErrInvalidSignature)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	issuer, _ := newTestIssuer(t, "secret-a")

	token, err := issuer.Issue(shared.Identity{AccountID: 7, IsAdmin: false}, time.Minute)
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)),
		},
	}).SignedString([]byte("secret-a"))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, shared.ErrInvalidSignature)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	issuer, _ := newTestIssuer(t, "secret-a")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)),
		},
	}).SignedString([]byte("secret-a"))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, shared.ErrInvalidSignature)
}

func TestVerifyMalformed(t *testing.T) {
	issuer, _ := newTestIssuer(t, "secret-a")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(token)
		require.ErrorIs(t, err, shared.ErrMalformedToken, token)
	}
}

func TestVerifyRequiresSubjectAndExpiry(t *testing.T) {
	issuer, _ := newTestIssuer(t, "secret-a")

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)),
		},
	}).SignedString([]byte("secret-a"))
	require.NoError(t, err)
	_, err = issuer.Verify(noSubject)
	require.ErrorIs(t, err, shared.ErrMalformedToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}).SignedString([]byte("secret-a"))
	require.NoError(t, err)
	_, err = issuer.Verify(noExpiry)
	require.ErrorIs(t, err, shared.ErrMalformedToken)
}

func TestNewTokenIssuerValidatesInput(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	require.Error(t, err)
	_, err = NewTokenIssuer("secret", 0)
	require.Error(t, err)
}

package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shelterstock/shelterstock/internal/shared"
)

type sessionClaims struct {
	IsAdmin   bool  `json:"isAdmin"`
	ShelterID int64 `json:"abrigoId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies stateless session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer bound to one signing secret.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: session ttl must be positive")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the issuer clock. Tests use it to move past expiry.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	clone := *i
	clone.now = now
	return &clone
}

// TTL returns the default session lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a signed token for identity valid for ttl (the default ttl when zero).
func (i *TokenIssuer) Issue(identity shared.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := i.now()
	claims := sessionClaims{
		IsAdmin:   identity.IsAdmin,
		ShelterID: identity.ShelterID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the signature and expiry of token and returns the embedded identity.
func (i *TokenIssuer) Verify(token string) (shared.Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return shared.Identity{}, shared.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return shared.Identity{}, shared.ErrInvalidSignature
		default:
			return shared.Identity{}, shared.ErrMalformedToken
		}
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return shared.Identity{}, shared.ErrMalformedToken
	}
	return shared.Identity{
		AccountID: accountID,
		IsAdmin:   claims.IsAdmin,
		ShelterID: claims.ShelterID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

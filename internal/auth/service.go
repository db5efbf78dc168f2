package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo      Repository
	hasher    *Hasher
	tokens    *TokenIssuer
	throttle  *LoginThrottle
	logger    *slog.Logger
	dummyHash string
}

// NewService constructs a new Service. throttle may be nil.
func NewService(repo Repository, hasher *Hasher, tokens *TokenIssuer, throttle *LoginThrottle, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// Unknown emails are checked against this digest so both paths cost one bcrypt compare.
	dummy, err := hasher.Hash("shelterstock-unknown-account")
	if err != nil {
		return nil, err
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		throttle:  throttle,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Login validates credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = shared.NormalizeEmail(email)
	if err := s.throttle.Allow(ctx, email); err != nil {
		return "", err
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
		s.hasher.Verify(password, s.dummyHash)
		s.recordFailure(ctx, email)
		return "", shared.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, cred.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", shared.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login throttle", slog.Any("error", err))
	}
	return s.tokens.Issue(shared.Identity{
		AccountID: cred.AccountID,
		IsAdmin:   cred.IsAdmin,
		ShelterID: cred.ShelterID,
	}, 0)
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.logger.Warn("record login failure", slog.Any("error", err))
	}
}

package users

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	List(ctx context.Context) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, rec record) (Account, error)
	Update(ctx context.Context, rec record) (Account, error)
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher hashes plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Service handles account business logic.
type Service struct {
	repo   RepositoryPort
	hasher PasswordHasher
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, hasher PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	if id <= 0 {
		return Account{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create registers a new account. Without abrigoId the account joins the
// caller's shelter.
func (s *Service) Create(ctx context.Context, input CreateInput) (Account, error) {
	rec, err := prepare(input.Name, input.Email, input.IsAdmin, input.ShelterID)
	if err != nil {
		return Account{}, err
	}
	if rec.ShelterID == 0 {
		if identity, ok := shared.IdentityFromContext(ctx); ok {
			rec.ShelterID = identity.ShelterID
		}
	}
	if rec.ShelterID == 0 {
		return Account{}, shared.Validationf("abrigoId is required")
	}
	if rec.PasswordHash, err = s.hasher.Hash(input.Password); err != nil {
		return Account{}, err
	}
	account, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Account{}, err
	}
	s.logger.Info("account created", slog.Int64("account_id", account.ID), slog.Bool("is_admin", account.IsAdmin))
	return account, nil
}

// Update replaces the mutable fields of an account.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Account, error) {
	if id <= 0 {
		return Account{}, shared.ErrNotFound
	}
	if identity, ok := shared.IdentityFromContext(ctx); ok && identity.AccountID == id &&
		input.IsAdmin != nil && !*input.IsAdmin {
		return Account{}, shared.Validationf("cannot remove admin rights from the account in use")
	}
	rec, err := prepare(input.Name, input.Email, false, input.ShelterID)
	if err != nil {
		return Account{}, err
	}
	rec.ID = id
	rec.SetAdmin = input.IsAdmin
	if input.Password != "" {
		if rec.PasswordHash, err = s.hasher.Hash(input.Password); err != nil {
			return Account{}, err
		}
	}
	return s.repo.Update(ctx, rec)
}

// Delete removes an account. Callers cannot delete themselves.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if identity, ok := shared.IdentityFromContext(ctx); ok && identity.AccountID == id {
		return shared.Validationf("cannot delete the account in use")
	}
	return s.repo.Delete(ctx, id)
}

func prepare(name, email string, isAdmin bool, shelterID int64) (record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return record{}, shared.Validationf("nomeUsuario is required")
	}
	email = shared.NormalizeEmail(email)
	if email == "" {
		return record{}, shared.Validationf("email is required")
	}
	return record{Account: Account{Name: name, Email: email, IsAdmin: isAdmin, ShelterID: shelterID}}, nil
}

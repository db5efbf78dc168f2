package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// Repository is the persistence port of the coordinator.
type Repository interface {
	AdminExists(ctx context.Context) (bool, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the writes performed inside the bootstrap transaction.
type TxRepository interface {
	LockBootstrap(ctx context.Context) error
	AdminExists(ctx context.Context) (bool, error)
	ShelterExists(ctx context.Context, id int64) (bool, error)
	CreateShelter(ctx context.Context, shelter ShelterInput) (int64, error)
	CreateBootstrapAdmin(ctx context.Context, admin NewAdmin) (int64, error)
}

// PasswordHasher hashes the administrator password before it is stored.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Coordinator performs the one-time first-admin bootstrap.
type Coordinator struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{repo: repo, hasher: hasher, logger: logger}
}

// CreateFirstAdmin creates the first administrator. With shelter set, the shelter
// and the account are created in one transaction; otherwise the account joins
// account.ShelterID. Once any administrator exists it fails with
// ErrAdminAlreadyExists and writes nothing.
func (c *Coordinator) CreateFirstAdmin(ctx context.Context, account AccountInput, shelter *ShelterInput) (int64, error) {
	if shelter == nil && account.ShelterID <= 0 {
		return 0, shared.Validationf("abrigoId or abrigo is required")
	}
	email := shared.NormalizeEmail(account.Email)

	exists, err := c.repo.AdminExists(ctx)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, shared.ErrAdminAlreadyExists
	}

	digest, err := c.hasher.Hash(account.Password)
	if err != nil {
		return 0, err
	}

	var accountID int64
	err = c.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.LockBootstrap(ctx); err != nil {
			return err
		}
		exists, err := tx.AdminExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrAdminAlreadyExists
		}

		shelterID := account.ShelterID
		if shelter != nil {
			shelterID, err = tx.CreateShelter(ctx, *shelter)
			if err != nil {
				return err
			}
		} else {
			found, err := tx.ShelterExists(ctx, shelterID)
			if err != nil {
				return err
			}
			if !found {
				return shared.ErrNotFound
			}
		}

		accountID, err = tx.CreateBootstrapAdmin(ctx, NewAdmin{
			Name:         account.Name,
			Email:        email,
			PasswordHash: digest,
			ShelterID:    shelterID,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrAdminAlreadyExists) {
			c.logger.Info("bootstrap rejected: administrator exists")
		}
		return 0, err
	}

	c.logger.Info("bootstrap administrator created", slog.Int64("account_id", accountID))
	return accountID, nil
}

package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelterstock/shelterstock/internal/platform/db"
	"github.com/shelterstock/shelterstock/internal/shared"
)

const adminExistsSQL = `SELECT EXISTS (SELECT 1 FROM accounts WHERE is_admin)`

// PGRepository persists bootstrap writes in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// AdminExists reports whether any administrator account exists.
func (r *PGRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, adminExistsSQL).Scan(&exists)
	return exists, err
}

// WithTx runs fn inside a single transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) LockBootstrap(ctx context.Context) error {
	_, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, shared.BootstrapLockKey)
	return err
}

func (r *txRepo) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, adminExistsSQL).Scan(&exists)
	return exists, err
}

func (r *txRepo) ShelterExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shelters WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *txRepo) CreateShelter(ctx context.Context, shelter ShelterInput) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO shelters (name, address) VALUES ($1, $2) RETURNING id`,
		shelter.Name, shelter.Address).Scan(&id)
	return id, db.Translate(err)
}

func (r *txRepo) CreateBootstrapAdmin(ctx context.Context, admin NewAdmin) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO accounts (name, email, password_hash, is_admin, bootstrap, shelter_id)
VALUES ($1, $2, $3, TRUE, TRUE, $4) RETURNING id`,
		admin.Name, admin.Email, admin.PasswordHash, admin.ShelterID).Scan(&id)
	return id, db.Translate(err)
}

var _ Repository = (*PGRepository)(nil)

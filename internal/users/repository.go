package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelterstock/shelterstock/internal/platform/db"
	"github.com/shelterstock/shelterstock/internal/shared"
)

const accountColumns = `id, name, email, is_admin, shelter_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.IsAdmin, &a.ShelterID, &a.CreatedAt, &a.UpdatedAt)
	return a, db.Translate(err)
}

// List returns all accounts ordered by id.
func (r *Repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	accounts := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Get loads an account by id.
func (r *Repository) Get(ctx context.Context, id int64) (Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

// Create inserts a regular account. Only the bootstrap flow sets bootstrap.
func (r *Repository) Create(ctx context.Context, rec record) (Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `INSERT INTO accounts (name, email, password_hash, is_admin, shelter_id)
VALUES ($1, $2, $3, $4, $5) RETURNING `+accountColumns,
		rec.Name, rec.Email, rec.PasswordHash, rec.IsAdmin, rec.ShelterID))
}

// Update rewrites an account. An empty hash, nil role or zero shelter keeps the
// stored value.
func (r *Repository) Update(ctx context.Context, rec record) (Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `UPDATE accounts SET
    name = $2,
    email = $3,
    password_hash = COALESCE(NULLIF($4, ''), password_hash),
    is_admin = COALESCE($5::BOOLEAN, is_admin),
    shelter_id = COALESCE(NULLIF($6::BIGINT, 0), shelter_id),
    updated_at = NOW()
WHERE id = $1
RETURNING `+accountColumns,
		rec.ID, rec.Name, rec.Email, rec.PasswordHash, rec.SetAdmin, rec.ShelterID))
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)

package shelters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelterstock/shelterstock/internal/platform/db"
	"github.com/shelterstock/shelterstock/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Shelter, error)
	Get(ctx context.Context, id int64) (Shelter, error)
	Create(ctx context.Context, shelter Shelter) (Shelter, error)
	Update(ctx context.Context, shelter Shelter) (Shelter, error)
	Delete(ctx context.Context, id int64) error
}

const columns = `id, name, address, created_at, updated_at`

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scan(row pgx.Row) (Shelter, error) {
	var s Shelter
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context) ([]Shelter, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM shelters ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shelters := make([]Shelter, 0)
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		shelters = append(shelters, s)
	}
	return shelters, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Shelter, error) {
	s, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM shelters WHERE id = $1`, id))
	return s, db.Translate(err)
}

func (r *repository) Create(ctx context.Context, shelter Shelter) (Shelter, error) {
	s, err := scan(r.pool.QueryRow(ctx, `INSERT INTO shelters (name, address) VALUES ($1, $2) RETURNING `+columns,
		shelter.Name, shelter.Address))
	return s, db.Translate(err)
}

func (r *repository) Update(ctx context.Context, shelter Shelter) (Shelter, error) {
	s, err := scan(r.pool.QueryRow(ctx, `UPDATE shelters SET name = $2, address = $3, updated_at = NOW()
WHERE id = $1 RETURNING `+columns, shelter.ID, shelter.Name, shelter.Address))
	return s, db.Translate(err)
}

// Delete fails with ErrHasDependents while accounts or items still reference the shelter.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shelters WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

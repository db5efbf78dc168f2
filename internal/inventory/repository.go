package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelterstock/shelterstock/internal/platform/db"
	"github.com/shelterstock/shelterstock/internal/shared"
)

const (
	itemColumns     = `id, name, category, quantity, shelter_id, created_at, updated_at`
	donationColumns = `id, quantity, occurred_at, item_id, created_at`

	idempotencyModule = "donations"
)

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	var quantity int32
	err := row.Scan(&item.ID, &item.Name, &item.Category, &quantity, &item.ShelterID, &item.CreatedAt, &item.UpdatedAt)
	item.Quantity = int64(quantity)
	return item, err
}

func scanDonation(row pgx.Row) (Donation, error) {
	var d Donation
	var quantity int32
	err := row.Scan(&d.ID, &quantity, &d.OccurredAt, &d.ItemID, &d.CreatedAt)
	d.Quantity = int64(quantity)
	return d, err
}

// ApplyDelta relies on the row lock taken by UPDATE: a concurrent writer waits,
// then the WHERE clause is re-evaluated against the committed quantity.
func (r *txRepository) ApplyDelta(ctx context.Context, itemID, delta int64) (Item, error) {
	item, err := scanItem(r.tx.QueryRow(ctx, `UPDATE items
SET quantity = quantity + $2, updated_at = NOW()
WHERE id = $1 AND quantity + $2 >= 0
RETURNING `+itemColumns, itemID, delta))
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Item{}, db.Translate(err)
	}

	var available int32
	err = r.tx.QueryRow(ctx, `SELECT quantity FROM items WHERE id = $1`, itemID).Scan(&available)
	if err != nil {
		return Item{}, db.Translate(err)
	}
	return Item{}, &InsufficientQuantityError{ItemID: itemID, Requested: -delta, Available: int64(available)}
}

func (r *txRepository) InsertDonation(ctx context.Context, donation Donation) (Donation, error) {
	d, err := scanDonation(r.tx.QueryRow(ctx, `INSERT INTO donations (quantity, occurred_at, item_id)
VALUES ($1, $2, $3)
RETURNING `+donationColumns, donation.Quantity, donation.OccurredAt, donation.ItemID))
	return d, db.Translate(err)
}

func (r *txRepository) ClaimIdempotencyKey(ctx context.Context, key string) error {
	return shared.NewIdempotencyStore(r.tx).CheckAndInsert(ctx, key, idempotencyModule)
}

// ListItems returns items ordered by id.
func (r *Repository) ListItems(ctx context.Context, filter ItemFilter) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	if filter.ShelterID > 0 {
		query += ` WHERE shelter_id = $1`
		args = append(args, filter.ShelterID)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem fetches an item by id.
func (r *Repository) GetItem(ctx context.Context, id int64) (Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	return item, db.Translate(err)
}

// CreateItem inserts an item.
func (r *Repository) CreateItem(ctx context.Context, item Item) (Item, error) {
	created, err := scanItem(r.pool.QueryRow(ctx, `INSERT INTO items (name, category, quantity, shelter_id)
VALUES ($1, $2, $3, $4)
RETURNING `+itemColumns, item.Name, item.Category, item.Quantity, item.ShelterID))
	return created, db.Translate(err)
}

// UpdateItem overwrites an item. A zero ShelterID keeps the stored shelter.
func (r *Repository) UpdateItem(ctx context.Context, item Item) (Item, error) {
	updated, err := scanItem(r.pool.QueryRow(ctx, `UPDATE items
SET name = $2, category = $3, quantity = $4,
    shelter_id = COALESCE(NULLIF($5::BIGINT, 0), shelter_id),
    updated_at = NOW()
WHERE id = $1
RETURNING `+itemColumns, item.ID, item.Name, item.Category, item.Quantity, item.ShelterID))
	return updated, db.Translate(err)
}

// DeleteItem deletes an item. Items with donations are kept.
func (r *Repository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListDonations returns donations ordered by id.
func (r *Repository) ListDonations(ctx context.Context, filter DonationFilter) ([]Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations`
	var args []any
	if filter.ItemID > 0 {
		query += ` WHERE item_id = $1`
		args = append(args, filter.ItemID)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// GetDonation fetches a donation by id.
func (r *Repository) GetDonation(ctx context.Context, id int64) (Donation, error) {
	d, err := scanDonation(r.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = $1`, id))
	return d, db.Translate(err)
}

var _ RepositoryPort = (*Repository)(nil)

package bootstrap

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/shelterstock/shelterstock/internal/platform/db"
	"github.com/shelterstock/shelterstock/internal/shared"
)

// openTestPool connects to PG_DSN, applies the migrations and clears the
// accounts table. It skips in -short mode or when no database is configured.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `DELETE FROM accounts`)
	require.NoError(t, err)
	return pool
}

func TestPostgresConcurrentBootstrapExactlyOnce(t *testing.T) {
	pool := openTestPool(t)
	c := newTestCoordinator(NewRepository(pool))
	ctx := context.Background()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM accounts`)
	})

	emails := []string{"first@x.com", "second@x.com"}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, err := c.CreateFirstAdmin(ctx, adminInput(email), &ShelterInput{Name: "Ginásio", Address: "Rua 1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, shared.ErrAdminAlreadyExists):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(email)
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, 1, rejected)

	var admins int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE is_admin`).Scan(&admins))
	require.Equal(t, 1, admins)
}

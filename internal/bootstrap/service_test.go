package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelterstock/shelterstock/internal/auth"
	"github.com/shelterstock/shelterstock/internal/shared"
)

type memAccount struct {
	NewAdmin
	ID        int64
	IsAdmin   bool
	Bootstrap bool
}

type memoryRepo struct {
	mu       sync.Mutex
	shelters map[int64]ShelterInput
	accounts []memAccount
	nextID   int64

	// staleAdminCheck makes every existence check miss, as a concurrent
	// transaction would before the winner commits.
	staleAdminCheck bool
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{shelters: make(map[int64]ShelterInput)}
}

func (r *memoryRepo) adminExistsLocked() bool {
	if r.staleAdminCheck {
		return false
	}
	for _, a := range r.accounts {
		if a.IsAdmin {
			return true
		}
	}
	return false
}

func (r *memoryRepo) AdminExists(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adminExistsLocked(), nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shelters := make(map[int64]ShelterInput, len(r.shelters))
	for k, v := range r.shelters {
		shelters[k] = v
	}
	accounts := append([]memAccount(nil), r.accounts...)
	nextID := r.nextID

	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.shelters, r.accounts, r.nextID = shelters, accounts, nextID
		return err
	}
	return nil
}

func (r *memoryRepo) admins() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accounts {
		if a.IsAdmin {
			n++
		}
	}
	return n
}

func (tx *memoryTx) LockBootstrap(context.Context) error { return nil }

func (tx *memoryTx) AdminExists(context.Context) (bool, error) {
	return tx.repo.adminExistsLocked(), nil
}

func (tx *memoryTx) ShelterExists(_ context.Context, id int64) (bool, error) {
	_, ok := tx.repo.shelters[id]
	return ok, nil
}

func (tx *memoryTx) CreateShelter(_ context.Context, shelter ShelterInput) (int64, error) {
	tx.repo.nextID++
	tx.repo.shelters[tx.repo.nextID] = shelter
	return tx.repo.nextID, nil
}

func (tx *memoryTx) CreateBootstrapAdmin(_ context.Context, admin NewAdmin) (int64, error) {
	for _, a := range tx.repo.accounts {
		if a.Email == admin.Email {
			return 0, shared.ErrDuplicateEmail
		}
		if a.Bootstrap {
			return 0, shared.ErrAdminAlreadyExists
		}
	}
	if _, ok := tx.repo.shelters[admin.ShelterID]; !ok {
		return 0, shared.ErrNotFound
	}
	tx.repo.nextID++
	tx.repo.accounts = append(tx.repo.accounts, memAccount{NewAdmin: admin, ID: tx.repo.nextID, IsAdmin: true, Bootstrap: true})
	return tx.repo.nextID, nil
}

func newTestCoordinator(repo Repository) *Coordinator {
	return NewCoordinator(repo, auth.NewHasher(bcrypt.MinCost), nil)
}

func adminInput(email string) AccountInput {
	return AccountInput{Name: "Admin", Email: email, Password: "Secret123"}
}

func TestCreateFirstAdminWithShelter(t *testing.T) {
	repo := newMemoryRepo()
	c := newTestCoordinator(repo)

	id, err := c.CreateFirstAdmin(context.Background(), adminInput(" Admin@X.com"), &ShelterInput{Name: "Casa", Address: "Rua 1"})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.Len(t, repo.shelters, 1)
	require.Len(t, repo.accounts, 1)
	acc := repo.accounts[0]
	require.Equal(t, "admin@x.com", acc.Email)
	require.NotEqual(t, "Secret123", acc.PasswordHash)
	require.True(t, auth.NewHasher(bcrypt.MinCost).Verify("Secret123", acc.PasswordHash))
	_, ok := repo.shelters[acc.ShelterID]
	require.True(t, ok)
}

func TestCreateFirstAdminAttachesExistingShelter(t *testing.T) {
	repo := newMemoryRepo()
	repo.shelters[50] = ShelterInput{Name: "Existing"}
	repo.nextID = 50
	c := newTestCoordinator(repo)

	input := adminInput("admin@x.com")
	input.ShelterID = 50
	_, err := c.CreateFirstAdmin(context.Background(), input, nil)
	require.NoError(t, err)
	require.Equal(t, int64(50), repo.accounts[0].ShelterID)
}

func TestCreateFirstAdminMissingShelter(t *testing.T) {
	repo := newMemoryRepo()
	c := newTestCoordinator(repo)

	input := adminInput("admin@x.com")
	input.ShelterID = 99
	_, err := c.CreateFirstAdmin(context.Background(), input, nil)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, repo.accounts)

	_, err = c.CreateFirstAdmin(context.Background(), adminInput("admin@x.com"), nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateFirstAdminSequentialExactlyOnce(t *testing.T) {
	repo := newMemoryRepo()
	c := newTestCoordinator(repo)
	ctx := context.Background()

	_, err := c.CreateFirstAdmin(ctx, adminInput("admin@x.com"), &ShelterInput{Name: "A", Address: "1"})
	require.NoError(t, err)

	_, err = c.CreateFirstAdmin(ctx, adminInput("other@x.com"), &ShelterInput{Name: "B", Address: "2"})
	require.ErrorIs(t, err, shared.ErrAdminAlreadyExists)
	require.Equal(t, 1, repo.admins())
	require.Len(t, repo.shelters, 1, "rejected bootstrap must not write")
}

func TestCreateFirstAdminConcurrentExactlyOnce(t *testing.T) {
	repo := newMemoryRepo()
	c := newTestCoordinator(repo)
	ctx := context.Background()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := adminInput("admin" + string(rune('a'+i)) + "@x.com")
			_, err := c.CreateFirstAdmin(ctx, input, &ShelterInput{Name: "S", Address: "A"})
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
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, callers-1, rejected)
	require.Equal(t, 1, repo.admins())
	require.Len(t, repo.shelters, 1)
}

func TestCreateFirstAdminLosingRaceHitsConstraint(t *testing.T) {
	repo := newMemoryRepo()
	c := newTestCoordinator(repo)
	ctx := context.Background()

	_, err := c.CreateFirstAdmin(ctx, adminInput("admin@x.com"), &ShelterInput{Name: "A", Address: "1"})
	require.NoError(t, err)

	repo.staleAdminCheck = true
	_, err = c.CreateFirstAdmin(ctx, adminInput("late@x.com"), &ShelterInput{Name: "B", Address: "2"})
	require.ErrorIs(t, err, shared.ErrAdminAlreadyExists)
	require.Len(t, repo.accounts, 1)
	require.Len(t, repo.shelters, 1, "shelter insert rolled back with the failed account")
}

func TestCreateFirstAdminDuplicateEmailIsDistinct(t *testing.T) {
	repo := newMemoryRepo()
	repo.shelters[1] = ShelterInput{Name: "S"}
	repo.nextID = 1
	// A regular account already holds the email.
	repo.accounts = append(repo.accounts, memAccount{NewAdmin: NewAdmin{Email: "admin@x.com", ShelterID: 1}, ID: 1})
	c := newTestCoordinator(repo)

	input := adminInput("ADMIN@x.com")
	input.ShelterID = 1
	_, err := c.CreateFirstAdmin(context.Background(), input, nil)
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)
	require.NotErrorIs(t, err, shared.ErrAdminAlreadyExists)
}

package inventory

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListItems(ctx context.Context, filter ItemFilter) ([]Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	CreateItem(ctx context.Context, item Item) (Item, error)
	UpdateItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, id int64) error
	ListDonations(ctx context.Context, filter DonationFilter) ([]Donation, error)
	GetDonation(ctx context.Context, id int64) (Donation, error)
}

// TxRepository exposes the ledger writes performed inside one transaction.
type TxRepository interface {
	// ApplyDelta adds delta to the item's quantity in a single conditional
	// statement. It fails with ErrNotFound or *InsufficientQuantityError and
	// leaves the row untouched in both cases.
	ApplyDelta(ctx context.Context, itemID, delta int64) (Item, error)
	InsertDonation(ctx context.Context, donation Donation) (Donation, error)
	ClaimIdempotencyKey(ctx context.Context, key string) error
}

// MovementObserver receives committed ledger movements.
type MovementObserver interface {
	ObserveMovement(kind string, units int64)
}

// Service coordinates inventory operations.
type Service struct {
	repo    RepositoryPort
	metrics MovementObserver
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds Service. metrics may be nil.
func NewService(repo RepositoryPort, metrics MovementObserver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Increment adds delta units to an item.
func (s *Service) Increment(ctx context.Context, itemID, delta int64) (Item, error) {
	if err := validateDelta(delta); err != nil {
		return Item{}, err
	}
	return s.move(ctx, MovementIncrement, itemID, delta)
}

// Decrement removes delta units from an item. It fails with
// *InsufficientQuantityError, without writing, when fewer units are on hand.
func (s *Service) Decrement(ctx context.Context, itemID, delta int64) (Item, error) {
	if err := validateDelta(delta); err != nil {
		return Item{}, err
	}
	return s.move(ctx, MovementDecrement, itemID, -delta)
}

func (s *Service) move(ctx context.Context, kind string, itemID, delta int64) (Item, error) {
	if itemID <= 0 {
		return Item{}, shared.ErrNotFound
	}
	var item Item
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		item, err = tx.ApplyDelta(ctx, itemID, delta)
		return err
	})
	if err != nil {
		return Item{}, err
	}
	s.observe(kind, delta)
	return item, nil
}

// RecordDonation stores a donation and raises the item's quantity by the same
// amount. Both writes commit together or not at all.
func (s *Service) RecordDonation(ctx context.Context, input DonationInput) (Donation, error) {
	if input.Quantity <= 0 || input.Quantity > maxQuantity {
		return Donation{}, shared.ErrInvalidQuantity
	}
	if input.ItemID <= 0 {
		return Donation{}, shared.ErrNotFound
	}
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	key := strings.TrimSpace(input.IdempotencyKey)

	var donation Donation
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if key != "" {
			if err := tx.ClaimIdempotencyKey(ctx, key); err != nil {
				return err
			}
		}
		if _, err := tx.ApplyDelta(ctx, input.ItemID, input.Quantity); err != nil {
			return err
		}
		var err error
		donation, err = tx.InsertDonation(ctx, Donation{
			ItemID:     input.ItemID,
			Quantity:   input.Quantity,
			OccurredAt: occurredAt.UTC(),
		})
		return err
	})
	if err != nil {
		return Donation{}, err
	}
	s.observe(MovementDonation, input.Quantity)
	s.logger.Info("donation recorded",
		slog.Int64("donation_id", donation.ID),
		slog.Int64("item_id", donation.ItemID),
		slog.Int64("quantity", donation.Quantity))
	return donation, nil
}

func (s *Service) observe(kind string, delta int64) {
	if s.metrics == nil {
		return
	}
	if delta < 0 {
		delta = -delta
	}
	s.metrics.ObserveMovement(kind, delta)
}

func validateDelta(delta int64) error {
	if delta <= 0 || delta > maxQuantity {
		return shared.ErrInvalidDelta
	}
	return nil
}

// ListItems returns items, optionally narrowed to one shelter.
func (s *Service) ListItems(ctx context.Context, filter ItemFilter) ([]Item, error) {
	return s.repo.ListItems(ctx, filter)
}

// GetItem returns one item.
func (s *Service) GetItem(ctx context.Context, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrNotFound
	}
	return s.repo.GetItem(ctx, id)
}

// CreateItem stores a new item. Without abrigoId the caller's own shelter is used.
func (s *Service) CreateItem(ctx context.Context, input ItemInput) (Item, error) {
	item, err := itemFromInput(input)
	if err != nil {
		return Item{}, err
	}
	if item.ShelterID == 0 {
		identity, ok := shared.IdentityFromContext(ctx)
		if !ok || identity.ShelterID <= 0 {
			return Item{}, shared.Validationf("abrigoId is required")
		}
		item.ShelterID = identity.ShelterID
	}
	return s.repo.CreateItem(ctx, item)
}

// UpdateItem replaces an item's fields, including setting its quantity
// directly. A zero abrigoId keeps the current shelter.
func (s *Service) UpdateItem(ctx context.Context, id int64, input ItemInput) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrNotFound
	}
	item, err := itemFromInput(input)
	if err != nil {
		return Item{}, err
	}
	item.ID = id
	return s.repo.UpdateItem(ctx, item)
}

// DeleteItem removes an item that has no donations.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	return s.repo.DeleteItem(ctx, id)
}

// ListDonations returns donations, optionally narrowed to one item.
func (s *Service) ListDonations(ctx context.Context, filter DonationFilter) ([]Donation, error) {
	return s.repo.ListDonations(ctx, filter)
}

// GetDonation returns one donation.
func (s *Service) GetDonation(ctx context.Context, id int64) (Donation, error) {
	if id <= 0 {
		return Donation{}, shared.ErrNotFound
	}
	return s.repo.GetDonation(ctx, id)
}

func itemFromInput(input ItemInput) (Item, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" {
		return Item{}, shared.Validationf("nome is required")
	}
	if category == "" {
		return Item{}, shared.Validationf("categoria is required")
	}
	if input.Quantity == nil {
		return Item{}, shared.Validationf("quantidade is required")
	}
	if *input.Quantity < 0 || *input.Quantity > maxQuantity {
		return Item{}, shared.Validationf("quantidade must be between 0 and %d", maxQuantity)
	}
	return Item{
		Name:      name,
		Category:  category,
		Quantity:  *input.Quantity,
		ShelterID: input.ShelterID,
	}, nil
}

package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// maxQuantity matches the INTEGER column backing items.quantity.
const maxQuantity = math.MaxInt32

// Movement kinds reported to metrics.
const (
	MovementIncrement = "increment"
	MovementDecrement = "decrement"
	MovementDonation  = "donation"
)

// Item is a stock keeping unit held by a shelter.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Category  string    `json:"categoria"`
	Quantity  int64     `json:"quantidade"`
	ShelterID int64     `json:"abrigoId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Donation is an immutable ledger event that increased an item's quantity.
type Donation struct {
	ID         int64     `json:"id"`
	Quantity   int64     `json:"quantidade"`
	OccurredAt time.Time `json:"data"`
	ItemID     int64     `json:"itemId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ItemInput is the create/update payload of an item.
type ItemInput struct {
	Name      string `json:"nome" validate:"required,max=200"`
	Category  string `json:"categoria" validate:"required,max=200"`
	Quantity  *int64 `json:"quantidade" validate:"required,gte=0"`
	ShelterID int64  `json:"abrigoId" validate:"omitempty,gt=0"`
}

// DeltaInput is the payload of increment and decrement requests. The sign rule
// is enforced by the ledger, not the decoder.
type DeltaInput struct {
	Quantity *int64 `json:"quantidade" validate:"required"`
}

// DonationInput describes a donation to record.
type DonationInput struct {
	ItemID         int64
	Quantity       int64
	OccurredAt     time.Time
	IdempotencyKey string
}

// ItemFilter narrows item listings.
type ItemFilter struct {
	ShelterID int64
}

// DonationFilter narrows donation listings.
type DonationFilter struct {
	ItemID int64
}

// InsufficientQuantityError reports a decrement larger than the stock on hand.
type InsufficientQuantityError struct {
	ItemID    int64
	Requested int64
	Available int64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("%s: item %d has %d, requested %d", shared.ErrInsufficientQuantity, e.ItemID, e.Available, e.Requested)
}

// Unwrap exposes the invariant kind to errors.Is.
func (e *InsufficientQuantityError) Unwrap() error {
	return shared.ErrInsufficientQuantity
}

// ProblemMeta reports the quantities to API clients.
func (e *InsufficientQuantityError) ProblemMeta() map[string]any {
	return map[string]any{
		"itemId":    e.ItemID,
		"requested": e.Requested,
		"available": e.Available,
	}
}

// Package shelters manages the shelters that own accounts and items.
package shelters

import "time"

// Shelter represents a shelter entity
type Shelter struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Address   string    `json:"endereco"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input is the create/update payload.
type Input struct {
	Name    string `json:"nome" validate:"required,max=200"`
	Address string `json:"endereco" validate:"required,max=500"`
}

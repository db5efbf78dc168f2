package users

import "time"

// Account is a user of the API. The password hash never leaves this package.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nomeUsuario"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	ShelterID int64     `json:"abrigoId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput is the payload for POST /usuarios.
type CreateInput struct {
	Name      string `json:"nomeUsuario" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"senha" validate:"required,min=8,max=72"`
	IsAdmin   bool   `json:"isAdmin"`
	ShelterID int64  `json:"abrigoId" validate:"omitempty,gt=0"`
}

// UpdateInput is the payload for PUT /usuarios/{id}. An empty senha keeps the
// current password, a zero abrigoId keeps the current shelter and an absent
// isAdmin keeps the current role.
type UpdateInput struct {
	Name      string `json:"nomeUsuario" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"senha" validate:"omitempty,min=8,max=72"`
	IsAdmin   *bool  `json:"isAdmin"`
	ShelterID int64  `json:"abrigoId" validate:"omitempty,gt=0"`
}

// record is the persisted row including the hash. On update an empty
// PasswordHash or a nil SetAdmin means no change.
type record struct {
	Account
	PasswordHash string
	SetAdmin     *bool
}

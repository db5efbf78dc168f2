// Package bootstrap creates the first administrator of a fresh installation.
package bootstrap

// AccountInput holds the first administrator's account fields.
type AccountInput struct {
	Name      string `json:"nomeUsuario" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"senha" validate:"required,min=8,max=72"`
	ShelterID int64  `json:"abrigoId" validate:"omitempty,gt=0"`
}

// ShelterInput describes a shelter created together with the administrator.
type ShelterInput struct {
	Name    string `json:"nome" validate:"required,max=200"`
	Address string `json:"endereco" validate:"required,max=500"`
}

// NewAdmin is the account row written by the coordinator.
type NewAdmin struct {
	Name         string
	Email        string
	PasswordHash string
	ShelterID    int64
}

type request struct {
	AccountInput
	Shelter *ShelterInput `json:"abrigo"`
}

type response struct {
	ID int64 `json:"id"`
}

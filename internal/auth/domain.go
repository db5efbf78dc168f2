package auth

// Credential is the slice of an account needed to authenticate it.
type Credential struct {
	AccountID    int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	ShelterID    int64
}

// LoginInput carries the login request payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token string `json:"token"`
}

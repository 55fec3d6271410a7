package auth

import "context"

// Account is the minimal credential view the auth service needs. The user
// module adapts its repository to this interface so auth does not depend on
// the user package.
type Account struct {
	ID           string
	PasswordHash string
	Role         string
}

// AccountSource looks up accounts for credential checks.
type AccountSource interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

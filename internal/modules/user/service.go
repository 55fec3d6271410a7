package user

import "context"

// Service defines the interface for staff-account business logic.
type Service interface {
	RegisterUser(ctx context.Context, name, email, password, role string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id string, name, email, role string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

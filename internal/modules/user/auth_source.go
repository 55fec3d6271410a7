package user

import (
	"context"

	"github.com/prosthetix/prosthetics-backend/internal/modules/auth"
)

type authSource struct{ repo Repository }

// NewAuthSource adapts the user repository to the auth module's account lookup.
func NewAuthSource(repo Repository) auth.AccountSource {
	return &authSource{repo: repo}
}

func (s *authSource) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Account{
		ID:           u.ID.String(),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}, nil
}

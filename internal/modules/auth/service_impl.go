package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

type service struct {
	accounts AccountSource
	key      []byte
}

// NewService creates a new auth service. The signing key comes from
// JWT_SECRET when set.
func NewService(accounts AccountSource) Service {
	return &service{accounts: accounts, key: signingKey()}
}

func signingKey() []byte {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("your-secret-key")
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	expirationTime := time.Now().Add(defaultTokenTTL)
	claims := &Claims{
		Role: account.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   account.ID,
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

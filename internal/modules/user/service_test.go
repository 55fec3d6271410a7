package user

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errUserNotFound = errors.New("user not found")

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*User)}
}

func (m *memRepo) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID.String()] = user
	return nil
}

func (m *memRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errUserNotFound
}

func (m *memRepo) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) UpdateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID.String()]; !ok {
		return errUserNotFound
	}
	m.users[user.ID.String()] = user
	return nil
}

func (m *memRepo) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return errUserNotFound
	}
	delete(m.users, id)
	return nil
}

func TestRegisterUser(t *testing.T) {
	svc := NewService(newMemRepo())

	u, err := svc.RegisterUser(context.Background(), "Sam Ortiz", "sam@example.com", "hunter22", "")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, u.Role, "role defaults to staff")
	assert.NotEqual(t, "hunter22", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")))
}

func TestRegisterUserValidation(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.RegisterUser(context.Background(), "", "sam@example.com", "hunter22", "")
	assert.Error(t, err)

	_, err = svc.RegisterUser(context.Background(), "Sam Ortiz", "sam@example.com", "short", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")

	_, err = svc.RegisterUser(context.Background(), "Sam Ortiz", "sam@example.com", "hunter22", "superuser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}

func TestUpdateUserRole(t *testing.T) {
	svc := NewService(newMemRepo())
	u, err := svc.RegisterUser(context.Background(), "Sam Ortiz", "sam@example.com", "hunter22", "staff")
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), u.ID.String(), "", "", "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)
	assert.Equal(t, u.Name, updated.Name)

	_, err = svc.UpdateUser(context.Background(), u.ID.String(), "", "", "root")
	assert.Error(t, err)
}

func TestAuthSourceAdapter(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	u, err := svc.RegisterUser(context.Background(), "Sam Ortiz", "sam@example.com", "hunter22", "admin")
	require.NoError(t, err)

	source := NewAuthSource(repo)
	account, err := source.FindByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), account.ID)
	assert.Equal(t, "admin", account.Role)
	assert.Equal(t, u.PasswordHash, account.PasswordHash)

	_, err = source.FindByEmail(context.Background(), "nobody@example.com")
	assert.Error(t, err)
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64, role string) (string, error) {
	return "signed-token", nil
}

func testUser(password string, active bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           3,
		Email:        "cook@example.com",
		Username:     "cook",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       active,
	}
}

func TestLogin(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "cook@example.com").Return(testUser("secret123", true), nil)
	svc := NewService(users, fakeJWT{}, new(MockTokenRevoker))

	token, err := svc.Login(context.Background(), "cook@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "cook@example.com").Return(testUser("secret123", true), nil)
	svc := NewService(users, fakeJWT{}, new(MockTokenRevoker))

	_, err := svc.Login(context.Background(), "cook@example.com", "nope")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	svc := NewService(users, fakeJWT{}, new(MockTokenRevoker))

	_, err := svc.Login(context.Background(), "ghost@example.com", "secret123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "cook@example.com").Return(testUser("secret123", false), nil)
	svc := NewService(users, fakeJWT{}, new(MockTokenRevoker))

	_, err := svc.Login(context.Background(), "cook@example.com", "secret123")

	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestLogoutIsBestEffort(t *testing.T) {
	revoker := new(MockTokenRevoker)
	revoker.On("Revoke", mock.Anything, "jti-1", mock.Anything).Return(errors.New("db down"))
	svc := NewService(new(MockUserRepository), fakeJWT{}, revoker)

	// Must not panic or surface the failure.
	svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour))
	revoker.AssertExpectations(t)
}

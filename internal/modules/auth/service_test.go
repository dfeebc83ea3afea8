package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"servicehub/internal/domain"
	"servicehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 11
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, role domain.Role) (string, time.Time, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newTestService() (*Service, *mockUserRepo, *mockJWT) {
	users := new(mockUserRepo)
	tokens := new(mockJWT)
	return NewService(users, tokens).WithHashCost(bcrypt.MinCost), users, tokens
}

func TestRegister_Success(t *testing.T) {
	svc, users, tokens := newTestService()
	exp := time.Now().Add(time.Hour)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "host@example.com" && u.Role == domain.RoleHost && u.PasswordHash != "secret123"
	})).Return(nil)
	tokens.On("GenerateToken", int64(11), domain.RoleHost).Return("tok", exp, nil)

	out, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Asha", Email: "  Host@Example.com ", Password: "secret123", Role: domain.RoleHost,
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, int64(11), out.User.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(out.User.PasswordHash), []byte("secret123")))
	users.AssertExpectations(t)
}

func TestRegister_AdminRoleRefused(t *testing.T) {
	svc, users, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Root", Email: "a@b.co", Password: "secret123", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users, _ := newTestService()
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Asha", Email: "a@b.co", Password: "secret123", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, users, tokens := newTestService()
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: 5, Email: "c@example.com", PasswordHash: hash, Role: domain.RoleCustomer}

	users.On("GetByEmail", mock.Anything, "c@example.com").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)
	users.On("GetByEmail", mock.Anything, "broken@example.com").Return(nil, errors.New("db down"))
	tokens.On("GenerateToken", int64(5), domain.RoleCustomer).Return("tok-5", time.Now(), nil)

	out, err := svc.Login(context.Background(), LoginRequest{Email: "C@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "tok-5", out.Token)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "c@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "broken@example.com", Password: "x"})
	assert.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	svc, users, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetCurrentUser(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package auth

import (
	"context"
	"testing"

	"asesoria/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type stubJWT struct{}

func (stubJWT) GenerateToken(userID int64, role string) (string, error) {
	return "token", nil
}

func TestService_SignUp_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("ExistsByEmail", mock.Anything, "nuevo@asesoria.local").Return(false, nil)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockUsers, stubJWT{})

	result, err := service.SignUp(context.Background(), SignUpRequest{
		Name:     "Juan Pérez",
		Email:    "Nuevo@Asesoria.local",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "token", result.Token)
	assert.Equal(t, int64(42), result.User.ID)
	assert.Equal(t, domain.RoleClient, result.User.Role)
	assert.Equal(t, "nuevo@asesoria.local", result.User.Email)
	assert.Empty(t, result.User.PasswordHash)
}

func TestService_SignUp_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("ExistsByEmail", mock.Anything, "dup@asesoria.local").Return(true, nil)

	service := NewService(mockUsers, stubJWT{})

	// The uniqueness check must see the normalized email, not the raw input.
	_, err := service.SignUp(context.Background(), SignUpRequest{
		Name:     "Juan",
		Email:    " Dup@Asesoria.local ",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_SignIn_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "cliente@asesoria.local").Return(&domain.User{
		ID:           42,
		Email:        "cliente@asesoria.local",
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	}, nil)

	service := NewService(mockUsers, stubJWT{})

	result, err := service.SignIn(context.Background(), SignInRequest{
		Email:    "Cliente@Asesoria.local",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "token", result.Token)
	assert.Empty(t, result.User.PasswordHash)
}

func TestService_SignIn_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "cliente@asesoria.local").Return(&domain.User{
		ID:           42,
		Email:        "cliente@asesoria.local",
		PasswordHash: string(hash),
	}, nil)

	service := NewService(mockUsers, stubJWT{})

	_, err = service.SignIn(context.Background(), SignInRequest{
		Email:    "cliente@asesoria.local",
		Password: "nope",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SignIn_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "ghost@asesoria.local").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockUsers, stubJWT{})

	_, err := service.SignIn(context.Background(), SignInRequest{
		Email:    "ghost@asesoria.local",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdateProfile_PartialFields(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{
		ID:    42,
		Name:  "Juan",
		Phone: "600111222",
	}, nil)
	mockUsers.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Juan Pérez" && u.Phone == "600111222"
	})).Return(nil)

	service := NewService(mockUsers, stubJWT{})

	user, err := service.UpdateProfile(context.Background(), 42, UpdateProfileRequest{Name: "Juan Pérez"})

	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", user.Name)
	mockUsers.AssertExpectations(t)
}

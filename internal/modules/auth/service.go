package auth

import (
	"context"
	"errors"
	"strings"

	"asesoria/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service contains all business logic for authentication
type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
}

type SignInResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// SignUp registers a new client account. The role is fixed at creation and
// never changes afterwards.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*SignInResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validateEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleClient,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &SignInResult{User: user, Token: token}, nil
}

// SignIn authenticates by email and password. Wrong credentials come back as
// ErrInvalidCredentials; the handler turns that into a structured failure
// payload rather than a 500.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &SignInResult{User: user, Token: token}, nil
}

// GetCurrentUser restores the session user from a validated token's subject.
func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

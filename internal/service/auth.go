package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/repository"
)

var ErrIncorrectPassword = errors.New("incorrect password")

// bcryptCost matches the salting rounds the accounts were created with.
const bcryptCost = 10

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Name     string
	Username string
	Email    string
	Password string
}

// AuthService implements registration, login and the forgot-password flow.
type AuthService struct {
	users UserStore
}

// NewAuthService creates an auth service.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account after the email and username uniqueness checks.
// Neither check mutates anything on failure.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrEmailExists
	}

	exists, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrUsernameExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

// ResetPassword replaces the password of an existing account.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, email, string(passwordHash))
}

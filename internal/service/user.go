package service

import (
	"context"

	"github.com/MouazMsh/Bookfliy/internal/model"
)

// UserService exposes user lookups to the page handlers.
type UserService struct {
	users UserStore
}

// NewUserService creates a user service.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

package service

import (
	"context"
	"fmt"

	"github.com/hirespherex/portal-api/internal/adapters/credauth"
	"github.com/hirespherex/portal-api/internal/core"
	"github.com/hirespherex/portal-api/internal/domain/model"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users core.UserRepository
}

// UserService orchestrates admin-facing user management.
type UserService struct {
	users core.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{users: opts.Users}
}

// Create validates the request, hashes the password, and persists the user
// with its granted role set.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := credauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, req, hash)
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// ListWithOptions returns a page of users with optional filters.
func (s *UserService) ListWithOptions(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	return s.users.ListWithOptions(ctx, opts)
}

// Update applies a partial update to a user.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, id, req)
}

// Delete removes a user. Returns false when no user existed.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	return s.users.Delete(ctx, id)
}

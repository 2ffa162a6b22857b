// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/agrourbano/farmdash/internal/auth"
	"github.com/agrourbano/farmdash/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, params ListParams) ([]User, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	user := &User{
		Name:         req.Name,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		Active:       active,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	patch := Patch{
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		patch.Email = &email
	}

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	return s.repo.Update(ctx, id, patch)
}

// Delete removes a user. An administrator cannot delete their own account,
// which would leave the dashboard without the session's owner.
func (s *Service) Delete(ctx context.Context, requesterID, id int64) error {
	if requesterID == id {
		return fmt.Errorf("delete own account: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) FindByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	user, err := s.repo.GetByIDWithPassword(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	_, err := s.repo.Update(ctx, id, Patch{PasswordHash: &passwordHash})
	return err
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Active:       u.Active,
	}
}

var _ auth.UserProvider = (*Service)(nil)

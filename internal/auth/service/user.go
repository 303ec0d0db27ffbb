package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/store"
	"github.com/Dobariya-Nishant/auth-service/pkg/cryptox"
	"github.com/Dobariya-Nishant/auth-service/pkg/slogx"
)

// UserService covers profile reads and updates. Account creation lives on
// the AuthService because it opens a session as part of sign-up.
type UserService struct {
	Store store.Store
}

// UpdateProfileRequest carries the mutable profile fields. Nil means leave
// unchanged.
type UpdateProfileRequest struct {
	FullName       *string
	ProfilePicture *string
	DateOfBirth    *string
}

// Get returns the user by id.
func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return domain.User{}, err
	}
	return u, nil
}

// UpdateProfile patches the given fields and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (domain.User, error) {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return domain.User{}, fmt.Errorf("%w: fullName must not be empty", ErrValidation)
	}

	err := s.Store.Users().UpdateProfile(ctx, userID, req.FullName, req.ProfilePicture, req.DateOfBirth)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return domain.User{}, err
	}
	return s.Get(ctx, userID)
}

// ChangePassword verifies the current password before storing the new
// hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: missing required fields: newPassword", ErrValidation)
	}

	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		return fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", userID))
	return nil
}

// Delete removes the account. Sessions go with it via the schema cascade.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	err := s.Store.Users().DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", userID))
	return nil
}

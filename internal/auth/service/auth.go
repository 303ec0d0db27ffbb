package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/store"
	"github.com/Dobariya-Nishant/auth-service/pkg/cryptox"
	"github.com/Dobariya-Nishant/auth-service/pkg/idx"
	"github.com/Dobariya-Nishant/auth-service/pkg/jwtx"
	"github.com/Dobariya-Nishant/auth-service/pkg/slogx"
)

// AuthService is the authentication facade: it composes the user store and
// the session engine into the user-facing sign-up / login / refresh /
// logout operations. Thin orchestration only; all session mechanics live
// in SessionService.
type AuthService struct {
	Store    store.Store
	Sessions *SessionService
}

// SignUpRequest carries the fields a new account needs.
type SignUpRequest struct {
	FullName       string
	ProfilePicture string
	DateOfBirth    string
	Username       string
	Email          string
	Password       string
}

// LoginRequest identifies an account by email or username plus password.
type LoginRequest struct {
	Email    string
	Username string
	Password string
}

// AuthResult is what a successful sign-up or login hands back.
type AuthResult struct {
	User   domain.User
	Tokens domain.Tokens
}

func (r SignUpRequest) validate() error {
	var missing []string
	if strings.TrimSpace(r.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(r.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if r.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// SignUp creates a new local account and immediately opens a session for
// it. Username and email are pre-checked for uniqueness and the insert
// happens in the same transaction, so a racing duplicate still surfaces as
// ErrConflict rather than a raw storage error.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (AuthResult, error) {
	if err := req.validate(); err != nil {
		return AuthResult{}, err
	}

	// Argon2 is deliberately slow; hash outside the transaction.
	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		FullName:       strings.TrimSpace(req.FullName),
		ProfilePicture: strings.TrimSpace(req.ProfilePicture),
		DateOfBirth:    strings.TrimSpace(req.DateOfBirth),
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Role:           domain.RoleUser,
		PasswordHash:   hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, user.Username); err == nil {
			return fmt.Errorf("%w: username is taken", ErrConflict)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := tx.Users().GetUserByEmail(ctx, user.Email); err == nil {
			return fmt.Errorf("%w: email is taken", ErrConflict)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("%w: username or email is taken", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}

	slogx.FromContext(ctx).Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	tokens, err := s.Sessions.Create(ctx, jwtx.Payload{
		Subject:  user.ID,
		AuthType: string(domain.AuthTypeLocal),
	})
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Tokens: tokens}, nil
}

// Login authenticates an account by email or username and opens a new
// session for it. Each login is a fresh session row, so logging in from a
// second device never disturbs the first.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	if req.Email == "" && req.Username == "" {
		return AuthResult{}, fmt.Errorf("%w: email or username is required", ErrValidation)
	}
	if req.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: missing required fields: password", ErrValidation)
	}

	var user domain.User
	var err error
	if req.Email != "" {
		user, err = s.Store.Users().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	} else {
		user, err = s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return AuthResult{}, err
	}

	if err := cryptox.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("login rejected",
			slog.String("user_id", user.ID),
		)
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	tokens, err := s.Sessions.Create(ctx, jwtx.Payload{
		Subject:  user.ID,
		AuthType: string(domain.AuthTypeLocal),
	})
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh trades a valid refresh token for a brand-new pair, rotating the
// stored credential in place. A token that fails verification also loses
// its session row before the error comes back.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.Tokens, error) {
	if refreshToken == "" {
		return domain.Tokens{}, fmt.Errorf("%w: refresh token is required", ErrUnauthorized)
	}

	p, err := s.Sessions.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return domain.Tokens{}, err
	}

	return s.Sessions.Rotate(ctx, p.Subject, refreshToken)
}

// Logout ends the session bound to the presented refresh token. Safe to
// call on an already-ended session.
func (s *AuthService) Logout(ctx context.Context, ownerID, refreshToken string) error {
	if ownerID == "" || refreshToken == "" {
		return fmt.Errorf("%w: missing auth material", ErrUnauthorized)
	}
	return s.Sessions.Terminate(ctx, ownerID, refreshToken)
}

// Verify authenticates an access token and returns its payload. Used by
// the HTTP middleware guarding protected routes. A valid token whose
// account has since been deleted is rejected.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (jwtx.Payload, error) {
	if accessToken == "" {
		return jwtx.Payload{}, fmt.Errorf("%w: missing access token", ErrUnauthorized)
	}

	p, err := s.Sessions.VerifyAccess(ctx, accessToken)
	if err != nil {
		return jwtx.Payload{}, err
	}

	if _, err := s.Store.Users().GetUserByID(ctx, p.Subject); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.Payload{}, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
		}
		return jwtx.Payload{}, err
	}

	return p, nil
}

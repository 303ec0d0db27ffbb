package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/store"
	"github.com/Dobariya-Nishant/auth-service/pkg/idx"
	"github.com/Dobariya-Nishant/auth-service/pkg/jwtx"
	"github.com/Dobariya-Nishant/auth-service/pkg/slogx"
)

const (
	// DefaultListLimit is the page size for session listings when the
	// caller does not ask for one.
	DefaultListLimit = 20

	// MaxListLimit caps a single session listing page.
	MaxListLimit = 100
)

// SessionService is the session engine. It orchestrates the token codec
// and the session store: issue a pair, verify, rotate, terminate. It holds
// no in-memory session state, so every verify re-reads the store and
// concurrent calls from unrelated requests are safe.
type SessionService struct {
	Codec *jwtx.Codec
	Store store.Store

	// SessionTTL is the hard cap on a session row's life. Zero means
	// domain.DefaultSessionTTL.
	SessionTTL time.Duration
}

func (s *SessionService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return domain.DefaultSessionTTL
}

// Create mints a fresh access+refresh pair for the payload and appends a
// new session row keyed by the refresh token. It never updates an existing
// row, so concurrent creates for the same owner all succeed and each
// device gets its own session.
func (s *SessionService) Create(ctx context.Context, p jwtx.Payload) (domain.Tokens, error) {
	if p.Subject == "" {
		return domain.Tokens{}, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if !domain.AuthType(p.AuthType).Valid() {
		return domain.Tokens{}, fmt.Errorf("%w: unknown auth type %q", ErrValidation, p.AuthType)
	}

	accessToken, err := s.Codec.Mint(p, jwtx.KindAccess)
	if err != nil {
		return domain.Tokens{}, err
	}
	refreshToken, err := s.Codec.Mint(p, jwtx.KindRefresh)
	if err != nil {
		return domain.Tokens{}, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:           idx.New().String(),
		UserID:       p.Subject,
		RefreshToken: refreshToken,
		AuthType:     domain.AuthType(p.AuthType),
		OAuthToken:   p.OAuthToken,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL()),
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return domain.Tokens{}, err
	}

	slogx.FromContext(ctx).Info("session created",
		slog.String("user_id", p.Subject),
		slog.String("session_id", session.ID),
		slog.String("auth_type", p.AuthType),
	)

	return domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyAccess checks an access token. Pure cryptographic check, no store
// lookup.
func (s *SessionService) VerifyAccess(ctx context.Context, token string) (jwtx.Payload, error) {
	p, err := s.Codec.Verify(token, jwtx.KindAccess)
	if err != nil {
		return jwtx.Payload{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return p, nil
}

// VerifyRefresh checks a refresh token in two phases: first the signature
// and expiry, then the presence of a live session row holding exactly this
// token for this owner. On any failure the presented token is treated as
// compromised or stale and its session row, if one matches, is removed
// best-effort before the original failure is returned.
func (s *SessionService) VerifyRefresh(ctx context.Context, token string) (jwtx.Payload, error) {
	p, err := s.Codec.Verify(token, jwtx.KindRefresh)
	if err != nil {
		s.cleanupStaleSession(ctx, token)
		return jwtx.Payload{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	session, err := s.Store.Sessions().GetSession(ctx, p.Subject, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.cleanupStaleSession(ctx, token)
			return jwtx.Payload{}, ErrSessionNotFound
		}
		return jwtx.Payload{}, err
	}

	// The row may outlive its hard deadline between reaper runs.
	if session.Expired(time.Now().UTC()) {
		s.cleanupStaleSession(ctx, token)
		return jwtx.Payload{}, ErrSessionNotFound
	}

	return p, nil
}

// cleanupStaleSession deletes any session row matching the presented
// token's (owner, credential) pair, recovered via unsafe decode. The scope
// is intentionally the exact token string: unverified claims are only
// trusted to name a row the caller already holds the credential for. Its
// own failures are logged and swallowed so they never mask the caller's
// original error.
func (s *SessionService) cleanupStaleSession(ctx context.Context, token string) {
	p, ok := s.Codec.DecodeUnsafe(token)
	if !ok {
		return
	}

	err := s.Store.Sessions().DeleteSession(ctx, p.Subject, token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("stale session cleanup failed",
			slog.String("user_id", p.Subject),
			slog.Any("error", err),
		)
	}
}

// Rotate mints a brand-new token pair for the owner and swaps the session's
// stored refresh credential from the presented token to the new one in a
// single conditional update. The presented token stops matching any row the
// moment the swap lands, so at most one of two racing rotations consumes
// it; the loser gets ErrSessionNotFound. The session keeps its identity and
// its original expiry, so rotation never extends a session's 30-day cap.
func (s *SessionService) Rotate(ctx context.Context, ownerID, presentedToken string) (domain.Tokens, error) {
	p, err := s.Codec.Verify(presentedToken, jwtx.KindRefresh)
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if p.Subject != ownerID {
		return domain.Tokens{}, fmt.Errorf("%w: token subject mismatch", ErrUnauthorized)
	}

	accessToken, err := s.Codec.Mint(p, jwtx.KindAccess)
	if err != nil {
		return domain.Tokens{}, err
	}
	refreshToken, err := s.Codec.Mint(p, jwtx.KindRefresh)
	if err != nil {
		return domain.Tokens{}, err
	}

	now := time.Now().UTC()
	err = s.Store.Sessions().RotateSessionToken(ctx, ownerID, presentedToken, refreshToken, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tokens{}, ErrSessionNotFound
		}
		return domain.Tokens{}, err
	}

	slogx.FromContext(ctx).Info("session rotated", slog.String("user_id", ownerID))

	return domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Terminate deletes the session holding exactly this refresh token.
// Delete-if-present: logging out an already-expired or already-rotated
// session reports success.
func (s *SessionService) Terminate(ctx context.Context, ownerID, refreshToken string) error {
	err := s.Store.Sessions().DeleteSession(ctx, ownerID, refreshToken)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	slogx.FromContext(ctx).Info("session terminated", slog.String("user_id", ownerID))
	return nil
}

// List returns the owner's live sessions newest-first. limit <= 0 falls
// back to DefaultListLimit; a non-zero before continues an earlier page.
func (s *SessionService) List(ctx context.Context, ownerID string, limit int, before time.Time) ([]domain.Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.Store.Sessions().ListSessions(ctx, ownerID, limit, before)
}

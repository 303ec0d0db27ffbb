package sqlite

import (
	"testing"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/store"
	"github.com/Dobariya-Nishant/auth-service/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// An in-memory sqlite database exists per connection, so the pool
	// must not hand out a second one.
	s.db.SetMaxOpenConns(1)

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:        idx.New().String(),
		FullName:  "Test User",
		Username:  "user-" + idx.New().String(),
		Email:     idx.New().String() + "@example.com",
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Users().CreateUser(t.Context(), u))
	return u
}

func seedSession(t *testing.T, s *Store, userID, token string) domain.Session {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	sess := domain.Session{
		ID:           idx.New().String(),
		UserID:       userID,
		RefreshToken: token,
		AuthType:     domain.AuthTypeLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(domain.DefaultSessionTTL),
	}
	require.NoError(t, s.Sessions().CreateSession(t.Context(), sess))
	return sess
}

func TestSessionCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	created := seedSession(t, s, u.ID, "refresh-token-1")

	got, err := s.Sessions().GetSession(t.Context(), u.ID, "refresh-token-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, u.ID, got.UserID)
	require.Equal(t, domain.AuthTypeLocal, got.AuthType)

	// Wrong owner or wrong token both miss.
	_, err = s.Sessions().GetSession(t.Context(), "nobody", "refresh-token-1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().GetSession(t.Context(), u.ID, "refresh-token-2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionDuplicateTokenRejected(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	seedSession(t, s, u.ID, "dup-token")

	now := time.Now().UTC()
	err := s.Sessions().CreateSession(t.Context(), domain.Session{
		ID:           idx.New().String(),
		UserID:       u.ID,
		RefreshToken: "dup-token",
		AuthType:     domain.AuthTypeLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(domain.DefaultSessionTTL),
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestRotateSessionToken(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	sess := seedSession(t, s, u.ID, "old-token")
	now := time.Now().UTC()

	require.NoError(t, s.Sessions().RotateSessionToken(t.Context(), u.ID, "old-token", "new-token", now))

	// The old credential no longer resolves, the new one does, and the
	// session keeps its identity and deadline.
	_, err := s.Sessions().GetSession(t.Context(), u.ID, "old-token")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Sessions().GetSession(t.Context(), u.ID, "new-token")
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
	require.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	// A second rotation with the stale credential loses the race.
	err = s.Sessions().RotateSessionToken(t.Context(), u.ID, "old-token", "newer-token", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	seedSession(t, s, u.ID, "token-a")
	seedSession(t, s, u.ID, "token-b")

	require.NoError(t, s.Sessions().DeleteSession(t.Context(), u.ID, "token-a"))

	// The sibling session survives a targeted delete.
	_, err := s.Sessions().GetSession(t.Context(), u.ID, "token-b")
	require.NoError(t, err)

	// Deleting twice misses.
	err = s.Sessions().DeleteSession(t.Context(), u.ID, "token-a")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSessionsPagination(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	for i := 0; i < 5; i++ {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		sess := domain.Session{
			ID:           idx.New().String(),
			UserID:       u.ID,
			RefreshToken: "token-" + idx.New().String(),
			AuthType:     domain.AuthTypeLocal,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
			ExpiresAt:    createdAt.Add(domain.DefaultSessionTTL),
		}
		require.NoError(t, s.Sessions().CreateSession(t.Context(), sess))
	}

	page1, err := s.Sessions().ListSessions(t.Context(), u.ID, 3, time.Time{})
	require.NoError(t, err)
	require.Len(t, page1, 3)

	// Newest first, then continue from the last row's creation time.
	require.True(t, page1[0].CreatedAt.After(page1[2].CreatedAt))

	page2, err := s.Sessions().ListSessions(t.Context(), u.ID, 3, page1[2].CreatedAt)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	// No overlap between pages.
	seen := map[string]bool{}
	for _, sess := range append(page1, page2...) {
		require.False(t, seen[sess.ID])
		seen[sess.ID] = true
	}

	other, err := s.Sessions().ListSessions(t.Context(), "other-user", 10, time.Time{})
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	now := time.Now().UTC()

	live := seedSession(t, s, u.ID, "live-token")

	expired := domain.Session{
		ID:           idx.New().String(),
		UserID:       u.ID,
		RefreshToken: "expired-token",
		AuthType:     domain.AuthTypeLocal,
		CreatedAt:    now.Add(-31 * 24 * time.Hour),
		UpdatedAt:    now.Add(-31 * 24 * time.Hour),
		ExpiresAt:    now.Add(-24 * time.Hour),
	}
	require.NoError(t, s.Sessions().CreateSession(t.Context(), expired))

	n, err := s.Sessions().DeleteExpiredSessions(t.Context(), now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Sessions().GetSession(t.Context(), u.ID, "expired-token")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().GetSession(t.Context(), u.ID, live.RefreshToken)
	require.NoError(t, err)
}

func TestUserCascadeDeletesSessions(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	seedSession(t, s, u.ID, "cascade-token")

	require.NoError(t, s.Users().DeleteUser(t.Context(), u.ID))

	_, err := s.Sessions().GetSession(t.Context(), u.ID, "cascade-token")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	now := time.Now().UTC()
	errBoom := store.ErrAlreadyExists

	err := s.WithTx(t.Context(), func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(t.Context(), domain.Session{
			ID:           idx.New().String(),
			UserID:       u.ID,
			RefreshToken: "tx-token",
			AuthType:     domain.AuthTypeLocal,
			CreatedAt:    now,
			UpdatedAt:    now,
			ExpiresAt:    now.Add(domain.DefaultSessionTTL),
		}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Sessions().GetSession(t.Context(), u.ID, "tx-token")
	require.ErrorIs(t, err, store.ErrNotFound)
}

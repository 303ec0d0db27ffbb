package sqlite

import (
	"context"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/store"
)

type sessionsRepo struct {
	q querier
}

const sessionColumns = `id, user_id, refresh_token, auth_type, oauth_token, created_at, updated_at, expires_at`

func (r *sessionsRepo) scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var s domain.Session
	var authType string
	err := row.Scan(
		&s.ID, &s.UserID, &s.RefreshToken, &authType, &s.OAuthToken,
		&s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.AuthType = domain.AuthType(authType)
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.RefreshToken, string(s.AuthType), s.OAuthToken,
		s.CreatedAt, s.UpdatedAt, s.ExpiresAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *sessionsRepo) GetSession(ctx context.Context, userID, refreshToken string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? AND refresh_token = ?`,
		userID, refreshToken)
	return r.scanSession(row)
}

func (r *sessionsRepo) ListSessions(ctx context.Context, userID string, limit int, before time.Time) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		 WHERE user_id = ?`
	args := []any{userID}
	if !before.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, before.UTC())
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// RotateSessionToken swaps the refresh credential in a single conditional
// UPDATE. Two concurrent rotations of the same token race on the WHERE
// clause; exactly one wins and the loser sees ErrNotFound. expires_at is
// deliberately not touched, so rotation never extends a session's life.
func (r *sessionsRepo) RotateSessionToken(ctx context.Context, userID, oldToken, newToken string, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET refresh_token = ?, updated_at = ?
		 WHERE user_id = ? AND refresh_token = ?`,
		newToken, now.UTC(), userID, oldToken)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, userID, refreshToken string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ? AND refresh_token = ?`,
		userID, refreshToken)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

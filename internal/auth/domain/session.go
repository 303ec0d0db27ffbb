package domain

import "time"

// DefaultSessionTTL is the hard cap on a session row's lifetime. Rotation
// replaces the refresh credential but never extends this deadline, so a
// session dies at most 30 days after login no matter how actively it is
// refreshed.
const DefaultSessionTTL = 30 * 24 * time.Hour

// AuthType records how a session was established.
type AuthType string

const (
	// AuthTypeLocal is a username/password login.
	AuthTypeLocal AuthType = "local"
	// AuthTypeFederated is a login delegated to an external identity
	// provider.
	AuthTypeFederated AuthType = "federated"
)

// Valid reports whether t is a known auth type.
func (t AuthType) Valid() bool {
	return t == AuthTypeLocal || t == AuthTypeFederated
}

// Session is one device login. RefreshToken holds the full signed refresh
// JWT currently bound to the session; rotation swaps it for the next one.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RefreshToken string    `json:"-"`
	AuthType     AuthType  `json:"authType"`
	OAuthToken   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the session's hard deadline has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

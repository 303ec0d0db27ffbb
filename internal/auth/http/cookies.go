package http

import (
	"net/http"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/pkg/cryptox"
	"github.com/Dobariya-Nishant/auth-service/pkg/jwtx"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// The refresh cookie only ever needs to travel to the auth
	// endpoints, so it is path-scoped there and nowhere else.
	accessCookiePath  = "/v1/"
	refreshCookiePath = "/v1/auth/"
)

// cookies signs and reads the httpOnly token cookies. Signing binds the
// cookie value with an HMAC so a tampered cookie is discarded before any
// token parsing happens.
type cookies struct {
	secret string
	secure bool
}

func (c *cookies) set(w http.ResponseWriter, tokens domain.Tokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    cryptox.SignCookieValue(tokens.AccessToken, c.secret),
		Path:     accessCookiePath,
		MaxAge:   int(jwtx.DefaultAccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    cryptox.SignCookieValue(tokens.RefreshToken, c.secret),
		Path:     refreshCookiePath,
		MaxAge:   int(jwtx.DefaultRefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *cookies) clear(w http.ResponseWriter) {
	for _, target := range []struct{ name, path string }{
		{accessCookieName, accessCookiePath},
		{refreshCookieName, refreshCookiePath},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     target.name,
			Value:    "",
			Path:     target.path,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// read returns the unsigned cookie value, or "" when the cookie is absent
// or its signature does not check out.
func (c *cookies) read(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	value, ok := cryptox.UnsignCookieValue(cookie.Value, c.secret)
	if !ok {
		return ""
	}
	return value
}

package http

import (
	"net/http"
	"strings"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/service"
	"github.com/Dobariya-Nishant/auth-service/pkg/httpx"
)

// authnMiddleware guards protected routes. It accepts the access token as
// a Bearer header or as the signed access cookie, verifies it, and puts
// the authenticated user's ID on the request context.
func authnMiddleware(auth *service.AuthService, ck *cookies) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = ck.read(r, accessCookieName)
			}
			if token == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "missing access token")
				return
			}

			p, err := auth.Verify(r.Context(), token)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(httpx.ContextWithUserID(r.Context(), p.Subject)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

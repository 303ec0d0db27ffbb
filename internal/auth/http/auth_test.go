package http

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/service"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/store/drivers/sqlite"
	"github.com/Dobariya-Nishant/auth-service/pkg/cryptox"
	"github.com/Dobariya-Nishant/auth-service/pkg/jwtx"
	"github.com/Dobariya-Nishant/auth-service/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper.key"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const testCookieSecret = "test-cookie-secret"

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	_, accessKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, refreshKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	codec, err := jwtx.NewCodec(jwtx.CodecOptions{
		Issuer:     "auth-test",
		AccessKey:  accessKey,
		RefreshKey: refreshKey,
	})
	require.NoError(t, err)

	sessions := &service.SessionService{Codec: codec, Store: st}
	logger := slogx.New(slogx.Config{Service: "auth-test", Level: "error"})

	r := NewRouter("test", testCookieSecret, false, st, logger)
	r.AuthService = &service.AuthService{Store: st, Sessions: sessions}
	r.UserService = &service.UserService{Store: st}
	r.SessionService = sessions
	r.ApplyRoutes()
	return r
}

type envelope struct {
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	StatusCode int             `json:"statusCode"`
}

func doJSON(t *testing.T, router *Router, method, path string, body any, mutate ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, fn := range mutate {
		fn(req)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Equal(t, rec.Code, env.StatusCode)
	return rec, env
}

func signUp(t *testing.T, router *Router) (domain.User, domain.Tokens, *httptest.ResponseRecorder) {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/sign-up", map[string]string{
		"fullName": "Grace Hopper",
		"username": "grace",
		"email":    "grace@example.com",
		"password": "a very long password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var data struct {
		User   domain.User   `json:"user"`
		Tokens domain.Tokens `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.User, data.Tokens, rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUpEndpoint(t *testing.T) {
	router := newTestRouter(t)

	user, tokens, rec := signUp(t, router)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// Tokens also land as signed httpOnly cookies, the refresh one
	// scoped to the auth path.
	access := cookieByName(rec, accessCookieName)
	require.NotNil(t, access)
	require.True(t, access.HttpOnly)

	refresh := cookieByName(rec, refreshCookieName)
	require.NotNil(t, refresh)
	require.True(t, refresh.HttpOnly)
	require.Equal(t, refreshCookiePath, refresh.Path)

	unsigned, ok := cryptox.UnsignCookieValue(refresh.Value, testCookieSecret)
	require.True(t, ok)
	require.Equal(t, tokens.RefreshToken, unsigned)

	// Token responses must not be cached.
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestSignUpValidationEnvelope(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/sign-up", map[string]string{
		"fullName": "No Name",
		"password": "some password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, env.Message, "username")
	require.Contains(t, env.Message, "email")
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)
	signUp(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "grace@example.com",
		"password": "a very long password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "grace@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpointBodyToken(t *testing.T) {
	router := newTestRouter(t)
	_, tokens, _ := signUp(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var rotated domain.Tokens
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The consumed token is rejected and its session is gone.
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshCookieTakesPrecedenceOverBody(t *testing.T) {
	router := newTestRouter(t)
	_, first, _ := signUp(t, router)

	// A second session for the same account.
	_, env := doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "grace@example.com",
		"password": "a very long password",
	})
	var second struct {
		Tokens domain.Tokens `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &second))

	// Cookie carries the second session's token, body the first's. The
	// cookie wins, so the first session must survive the rotation.
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refreshToken": first.RefreshToken,
	}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{
			Name:  refreshCookieName,
			Value: cryptox.SignCookieValue(second.Tokens.RefreshToken, testCookieSecret),
		})
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refreshToken": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, "body token should be untouched by the cookie-driven rotation")
}

func TestTamperedRefreshCookieIgnored(t *testing.T) {
	router := newTestRouter(t)
	_, tokens, _ := signUp(t, router)

	// A cookie signed with the wrong secret is discarded, so the body
	// token is used instead.
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refreshToken": tokens.RefreshToken,
	}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{
			Name:  refreshCookieName,
			Value: cryptox.SignCookieValue(tokens.RefreshToken, "wrong-secret"),
		})
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	router := newTestRouter(t)
	_, tokens, _ := signUp(t, router)

	// Logout requires a valid access token.
	rec, _ := doJSON(t, router, http.MethodDelete, "/v1/auth/logout", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	withBearer := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	}

	rec, _ = doJSON(t, router, http.MethodDelete, "/v1/auth/logout", map[string]string{
		"refreshToken": tokens.RefreshToken,
	}, withBearer)
	require.Equal(t, http.StatusOK, rec.Code)

	// Cookies are cleared on the way out.
	refresh := cookieByName(rec, refreshCookieName)
	require.NotNil(t, refresh)
	require.Empty(t, refresh.Value)

	// The session is gone.
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedUserRoutes(t *testing.T) {
	router := newTestRouter(t)
	user, tokens, _ := signUp(t, router)

	withBearer := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	}

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/users/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := doJSON(t, router, http.MethodGet, "/v1/users/me", nil, withBearer)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "grace", got.Username)

	rec, env = doJSON(t, router, http.MethodPatch, "/v1/users/me", map[string]string{
		"fullName": "Rear Admiral Grace Hopper",
	}, withBearer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Equal(t, "Rear Admiral Grace Hopper", got.FullName)
}

func TestSessionsListEndpoint(t *testing.T) {
	router := newTestRouter(t)
	_, tokens, _ := signUp(t, router)

	// A second device.
	doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "grace@example.com",
		"password": "a very long password",
	})

	rec, env := doJSON(t, router, http.MethodGet, "/v1/auth/sessions", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []domain.Session
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	require.Len(t, sessions, 2)
}

func TestAccessTokenViaCookie(t *testing.T) {
	router := newTestRouter(t)
	_, tokens, _ := signUp(t, router)

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/users/me", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{
			Name:  accessCookieName,
			Value: cryptox.SignCookieValue(tokens.AccessToken, testCookieSecret),
		})
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

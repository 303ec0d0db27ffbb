package http

import (
	"encoding/json"
	"net/http"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
	"github.com/Dobariya-Nishant/auth-service/internal/auth/service"
	"github.com/Dobariya-Nishant/auth-service/pkg/httpx"
)

// AuthHandler serves sign-up, login, refresh, and logout. Tokens go out
// both in the response body and as signed httpOnly cookies; on the way in,
// a cookie wins over a body field when both carry a refresh token.
type AuthHandler struct {
	Auth    *service.AuthService
	Cookies *cookies
}

type signUpBody struct {
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
	DateOfBirth    string `json:"dateOfBirth"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

type loginBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

type authData struct {
	User   domain.User   `json:"user"`
	Tokens domain.Tokens `json:"tokens"`
}

func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Auth.SignUp(r.Context(), service.SignUpRequest{
		FullName:       body.FullName,
		ProfilePicture: body.ProfilePicture,
		DateOfBirth:    body.DateOfBirth,
		Username:       body.Username,
		Email:          body.Email,
		Password:       body.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.set(w, result.Tokens)
	httpx.WriteMessage(w, http.StatusCreated, "signed up", authData{
		User:   result.User,
		Tokens: result.Tokens,
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Auth.Login(r.Context(), service.LoginRequest{
		Email:    body.Email,
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.set(w, result.Tokens)
	httpx.WriteMessage(w, http.StatusOK, "logged in", authData{
		User:   result.User,
		Tokens: result.Tokens,
	})
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token := h.Cookies.read(r, refreshCookieName)
	if token == "" {
		var body refreshBody
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			token = body.RefreshToken
		}
	}

	tokens, err := h.Auth.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.set(w, tokens)
	httpx.WriteMessage(w, http.StatusOK, "tokens refreshed", tokens)
}

// HandleLogout requires a valid access token (enforced by the authn
// middleware) and the session's refresh token, then clears both cookies.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := h.Cookies.read(r, refreshCookieName)
	if token == "" {
		var body refreshBody
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			token = body.RefreshToken
		}
	}

	userID := httpx.UserIDFromContext(r.Context())
	if err := h.Auth.Logout(r.Context(), userID, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.clear(w)
	httpx.WriteMessage(w, http.StatusOK, "logged out", nil)
}

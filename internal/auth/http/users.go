package http

import (
	"encoding/json"
	"net/http"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/service"
	"github.com/Dobariya-Nishant/auth-service/pkg/httpx"
)

// UserHandler serves the authenticated user's own profile. The subject
// comes from the verified access token, never from the URL, so one user
// cannot read or mutate another's profile through these routes.
type UserHandler struct {
	Users *service.UserService
}

type updateProfileBody struct {
	FullName       *string `json:"fullName"`
	ProfilePicture *string `json:"profilePicture"`
	DateOfBirth    *string `json:"dateOfBirth"`
}

type changePasswordBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "user", user)
}

func (h *UserHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var body updateProfileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), httpx.UserIDFromContext(r.Context()), service.UpdateProfileRequest{
		FullName:       body.FullName,
		ProfilePicture: body.ProfilePicture,
		DateOfBirth:    body.DateOfBirth,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "user updated", user)
}

func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body changePasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.Users.ChangePassword(r.Context(), httpx.UserIDFromContext(r.Context()),
		body.CurrentPassword, body.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "password changed", nil)
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), httpx.UserIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "user deleted", nil)
}

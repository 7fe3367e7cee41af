package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/tutorship/internal/session"
	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

type ProfileHandler struct {
	Session *session.Store
	Client  *tutorsdk.Client
}

type homeResponse struct {
	User  *tutorsdk.User `json:"user"`
	Admin bool           `json:"admin"`
}

// HandleHome greets the signed-in user.
func (h *ProfileHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	user, err := h.Session.Profile(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, homeResponse{User: user, Admin: user.IsAdmin()})
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Session.Profile(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// HandleUpdate takes a multipart form: firstName, lastName, bio, repeated
// interests, availability as JSON text and an optional avatar file.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := parseForm(r); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	req := tutorsdk.UpdateUserRequest{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Bio:       r.FormValue("bio"),
		Interests: r.Form["interests"],
	}

	if raw := r.FormValue("availability"); raw != "" {
		var a tutorsdk.Availability
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "availability must be a JSON object")
			return
		}
		req.Availability = &a
	}

	avatar, closeFile, err := formFile(r, "avatar")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeFile()
	req.Avatar = avatar

	me, err := h.Session.Profile(ctx)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	user, err := h.Client.UpdateUser(ctx, me.ID, req)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	h.Session.InvalidateProfile()
	httpx.WriteJSON(w, http.StatusOK, user)
}

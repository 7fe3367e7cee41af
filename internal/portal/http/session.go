package http

import (
	"net/http"

	"github.com/aussiebroadwan/tutorship/internal/session"
	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
	"github.com/go-playground/validator/v10"
)

type SessionHandler struct {
	Session  *session.Store
	Client   *tutorsdk.Client
	Validate *validator.Validate
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	StudentNumber string `json:"studentNumber,omitempty"`
}

type sessionResponse struct {
	State string `json:"state"`
}

// HandleLoginPage describes the sign-in form.
func (h *SessionHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"state":  session.Unauthenticated.String(),
		"fields": []string{"email", "password"},
	})
}

// HandleLogin accepts a JSON or form body.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := parseForm(r); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")
	}

	if err := h.Validate.Struct(in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	err := h.Session.Login(r.Context(), tutorsdk.LoginRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("signed in")
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{State: session.Authenticated.String()})
}

// HandleRegister accepts a JSON body, or a multipart form when an avatar is
// uploaded.
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	var avatar *tutorsdk.File

	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := parseForm(r); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		in = registerInput{
			Email:         r.FormValue("email"),
			Password:      r.FormValue("password"),
			FirstName:     r.FormValue("firstName"),
			LastName:      r.FormValue("lastName"),
			StudentNumber: r.FormValue("studentNumber"),
		}

		f, closeFile, err := formFile(r, "avatar")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer closeFile()
		avatar = f
	}

	if err := h.Validate.Struct(in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "email, password (8+ characters), first and last name are required")
		return
	}

	user, err := h.Client.Register(r.Context(), tutorsdk.RegisterRequest{
		Email:         in.Email,
		Password:      in.Password,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		StudentNumber: in.StudentNumber,
		Avatar:        avatar,
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, user)
}

// HandleLogout signs out in this tab and every other one.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Unauthorize(r.Context()); err != nil {
		// The local state is already cleared, only the broadcast or the
		// cookie removal failed.
		slogx.FromContext(r.Context()).Warn("logout incomplete", "error", err)
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{State: session.Unauthenticated.String()})
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
	"github.com/go-playground/validator/v10"
)

// AdminHandler serves the elevated views. Every route sits behind the admin
// guard.
type AdminHandler struct {
	Client   *tutorsdk.Client
	Validate *validator.Validate
}

type rolesInput struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

type schemeInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	CourseIDs   []string `json:"courseIds"`
}

type courseInput struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// decodeValid reads a JSON body and checks its validate tags.
func (h *AdminHandler) decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := h.Validate.Struct(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Client.AdminListUsers(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.AdminDeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) HandleSetRoles(w http.ResponseWriter, r *http.Request) {
	var in rolesInput
	if !h.decodeValid(w, r, &in) {
		return
	}

	roles := make(tutorsdk.Roles, 0, len(in.Roles))
	for _, name := range in.Roles {
		role, err := tutorsdk.ParseRole(name)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		roles = append(roles, role)
	}

	user, err := h.Client.AdminSetUserRoles(r.Context(), r.PathValue("id"), roles)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (in schemeInput) sdk() tutorsdk.ProgramSchemeInput {
	return tutorsdk.ProgramSchemeInput{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CourseIDs:   in.CourseIDs,
	}
}

func (h *AdminHandler) HandleCreateScheme(w http.ResponseWriter, r *http.Request) {
	var in schemeInput
	if !h.decodeValid(w, r, &in) {
		return
	}

	scheme, err := h.Client.AdminCreateProgramScheme(r.Context(), in.sdk())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, scheme)
}

func (h *AdminHandler) HandleUpdateScheme(w http.ResponseWriter, r *http.Request) {
	var in schemeInput
	if !h.decodeValid(w, r, &in) {
		return
	}

	scheme, err := h.Client.AdminUpdateProgramScheme(r.Context(), r.PathValue("id"), in.sdk())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scheme)
}

func (h *AdminHandler) HandleDeleteScheme(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.AdminDeleteProgramScheme(r.Context(), r.PathValue("id")); err != nil {
		writeAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (in courseInput) sdk() tutorsdk.CourseInput {
	return tutorsdk.CourseInput{Code: in.Code, Name: in.Name, Description: in.Description}
}

func (h *AdminHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var in courseInput
	if !h.decodeValid(w, r, &in) {
		return
	}

	course, err := h.Client.AdminCreateCourse(r.Context(), in.sdk())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, course)
}

func (h *AdminHandler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var in courseInput
	if !h.decodeValid(w, r, &in) {
		return
	}

	course, err := h.Client.AdminUpdateCourse(r.Context(), r.PathValue("id"), in.sdk())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, course)
}

func (h *AdminHandler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.AdminDeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		writeAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

type ProgrammeHandler struct {
	Client *tutorsdk.Client
}

func (h *ProgrammeHandler) HandleListSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.Client.ListProgramSchemes(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, schemes)
}

func (h *ProgrammeHandler) HandleGetScheme(w http.ResponseWriter, r *http.Request) {
	scheme, err := h.Client.GetProgramScheme(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scheme)
}

func (h *ProgrammeHandler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Client.ListCourses(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, courses)
}

func (h *ProgrammeHandler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.Client.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, course)
}

// HandleListMentors filters on programSchemeId, courseId and search.
func (h *ProgrammeHandler) HandleListMentors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mentors, err := h.Client.ListMentors(r.Context(), tutorsdk.MentorFilter{
		ProgramSchemeID: q.Get("programSchemeId"),
		CourseID:        q.Get("courseId"),
		Search:          q.Get("search"),
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mentors)
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tutorship/internal/storage"
	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/go-playground/validator/v10"
)

// PreferencesHandler reads and writes UI preferences kept in local storage.
type PreferencesHandler struct {
	Prefs    storage.LocalStorage
	Validate *validator.Validate
}

type preferences struct {
	Language string `json:"language"`
	DarkMode bool   `json:"darkMode"`
}

type preferencesUpdate struct {
	Language *string `json:"language" validate:"omitempty,bcp47_language_tag"`
	DarkMode *bool   `json:"darkMode"`
}

func (h *PreferencesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.load(r)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to read preferences", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prefs)
}

// HandlePut updates the fields present in the body.
func (h *PreferencesHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in preferencesUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "language must be a BCP 47 tag")
		return
	}

	var err error
	if in.Language != nil {
		err = errors.Join(err, h.Prefs.SetItem(ctx, storage.PrefLanguage, *in.Language))
	}
	if in.DarkMode != nil {
		err = errors.Join(err, h.Prefs.SetItem(ctx, storage.PrefDarkMode, strconv.FormatBool(*in.DarkMode)))
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to save preferences", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	h.HandleGet(w, r)
}

func (h *PreferencesHandler) load(r *http.Request) (preferences, error) {
	ctx := r.Context()
	var prefs preferences

	lang, err := h.Prefs.GetItem(ctx, storage.PrefLanguage)
	switch {
	case err == nil:
		prefs.Language = lang
	case !errors.Is(err, storage.ErrNotFound):
		return prefs, err
	}

	dark, err := h.Prefs.GetItem(ctx, storage.PrefDarkMode)
	switch {
	case err == nil:
		prefs.DarkMode, _ = strconv.ParseBool(dark)
	case !errors.Is(err, storage.ErrNotFound):
		return prefs, err
	}

	return prefs, nil
}

package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tutorship/internal/session"
	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

// writeAPIError surfaces a pipeline error as {"error": message}. Upstream
// statuses pass through; a failed round trip or unreadable reply is a 502.
func writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var (
		reqErr       *tutorsdk.RequestError
		transportErr *tutorsdk.TransportError
		parseErr     *tutorsdk.ParseError
	)

	switch {
	case errors.As(err, &reqErr):
		log.Info("upstream rejected request", "status", reqErr.StatusCode, "message", reqErr.Message)
		httpx.WriteError(w, reqErr.StatusCode, reqErr.Message)
	case errors.As(err, &transportErr):
		log.Warn("upstream unreachable", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "The server could not be reached.")
	case errors.As(err, &parseErr):
		log.Warn("upstream sent an unreadable response", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "The server sent an invalid response.")
	case errors.Is(err, tutorsdk.ErrMissingPathParam), errors.Is(err, tutorsdk.ErrMalformedPath),
		errors.Is(err, tutorsdk.ErrUnsupportedValue):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotAuthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "Not signed in.")
	default:
		log.Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong.")
	}
}

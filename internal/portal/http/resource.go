package http

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

// ResourceHandler streams a downloaded resource back to the caller.
type ResourceHandler struct {
	Client *tutorsdk.Client
}

func (h *ResourceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Client.DownloadResource(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	defer res.Close()

	httpx.NoCache(w)
	w.Header().Set("Content-Type", res.ContentType)
	if res.Filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	}
	if res.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, res.Body); err != nil {
		slogx.FromContext(r.Context()).Warn("resource stream interrupted", "error", err)
	}
}

package http

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

const maxFormMemory = 10 << 20

func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormMemory))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseForm accepts urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// formFile returns the uploaded file for field, or nil when none was sent.
// The caller closes the returned closer.
func formFile(r *http.Request, field string) (*tutorsdk.File, func(), error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, func() {}, nil
	}

	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to read upload %q: %w", field, err)
	}

	return &tutorsdk.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}

package tutorsdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// File is a file-typed body value for multipart requests.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// NewFile wraps an in-memory file.
func NewFile(name, contentType string, data []byte) *File {
	return &File{Name: name, ContentType: contentType, Content: bytes.NewReader(data)}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes body as multipart/form-data and returns the buffer
// together with the Content-Type (boundary included). Fields are written in
// key order so bodies are reproducible.
func encodeMultipart(body map[string]any) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := writeField(w, k, body[k]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

func writeField(w *multipart.Writer, name string, v any) error {
	if f, ok := asFile(v); ok {
		return writeFile(w, name, f)
	}
	if s, ok := scalar(v); ok {
		return w.WriteField(name, s)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return writeField(w, name, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := writeElement(w, name, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map, reflect.Struct:
		return writeJSONPart(w, name, v)
	default:
		return fmt.Errorf("%w: field %q has type %T", ErrUnsupportedValue, name, v)
	}
}

// writeElement writes one element of a fanned-out slice. Files stay files,
// everything else becomes a string part.
func writeElement(w *multipart.Writer, name string, v any) error {
	if f, ok := asFile(v); ok {
		return writeFile(w, name, f)
	}
	if s, ok := scalar(v); ok {
		return w.WriteField(name, s)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || ((rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil()) {
		return nil
	}

	// Composite elements are sent as their JSON text.
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrUnsupportedValue, name, err)
	}
	return w.WriteField(name, string(b))
}

func writeFile(w *multipart.Writer, name string, f *File) error {
	if f.Content == nil {
		return fmt.Errorf("%w: file %q has no content", ErrUnsupportedValue, name)
	}

	filename := f.Name
	if filename == "" {
		filename = name
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file part %q: %w", name, err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return fmt.Errorf("failed to write file part %q: %w", name, err)
	}
	return nil
}

// writeJSONPart stores a nested object as a JSON blob part, the same shape a
// browser produces for FormData.append(name, new Blob([json], {type: "application/json"})).
func writeJSONPart(w *multipart.Writer, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrUnsupportedValue, name, err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="blob"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", "application/json")

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create json part %q: %w", name, err)
	}
	_, err = part.Write(b)
	return err
}

func asFile(v any) (*File, bool) {
	switch f := v.(type) {
	case *File:
		return f, f != nil
	case File:
		return &f, true
	}
	return nil, false
}

func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case bool:
		return strconv.FormatBool(s), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(s), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case time.Time:
		return s.Format(time.RFC3339), true
	case json.Number:
		return s.String(), true
	}

	// Named string types such as Role.
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

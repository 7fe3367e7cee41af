package tutorsdk

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Encoding selects how a request body is serialised.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingFile Encoding = "file"
)

var (
	ErrMissingPathParam = errors.New("tutorsdk: missing path parameter")
	ErrMalformedPath    = errors.New("tutorsdk: malformed path template")
	ErrUnsupportedValue = errors.New("tutorsdk: unsupported body value")
)

// Request describes one API call.
type Request struct {
	Method string

	// Path is relative to the client's base URL and may contain {name}
	// placeholders filled from PathParams.
	Path       string
	PathParams map[string]string

	Headers map[string]string
	Body    map[string]any
	Query   url.Values

	// Encoding defaults to EncodingJSON.
	Encoding Encoding
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

func (r Request) encoding() Encoding {
	if r.Encoding == "" {
		return EncodingJSON
	}
	return r.Encoding
}

// ResolvePath substitutes {name} placeholders in template with the
// path-escaped values from params. A placeholder without a non-empty value
// yields ErrMissingPathParam; unbalanced or empty braces yield
// ErrMalformedPath.
func ResolvePath(template string, params map[string]string) (string, error) {
	var b strings.Builder
	rest := template

	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return "", fmt.Errorf("%w: unexpected '}' in %q", ErrMalformedPath, template)
			}
			b.WriteString(rest)
			return b.String(), nil
		}

		if strings.IndexByte(rest[:open], '}') >= 0 {
			return "", fmt.Errorf("%w: unexpected '}' in %q", ErrMalformedPath, template)
		}
		b.WriteString(rest[:open])

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrMalformedPath, template)
		}

		name := rest[open+1 : open+end]
		if name == "" || strings.ContainsAny(name, "{/") {
			return "", fmt.Errorf("%w: bad placeholder %q in %q", ErrMalformedPath, name, template)
		}

		val, ok := params[name]
		if !ok || val == "" {
			return "", fmt.Errorf("%w: %q", ErrMissingPathParam, name)
		}
		b.WriteString(url.PathEscape(val))

		rest = rest[open+end+1:]
	}
}

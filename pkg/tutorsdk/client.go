package tutorsdk

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// CredentialSource supplies the persisted refresh token used as the bearer
// credential on outgoing requests.
type CredentialSource interface {
	RefreshToken(ctx context.Context) (string, bool)
}

// Client is a client for the tutorship programme REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Credentials provides the refresh token attached to JSON requests and
	// resource downloads. Nil means every request is anonymous.
	Credentials CredentialSource

	// Validator is applied to decoded responses. Failures are logged only.
	Validator Validator

	// Metrics records request outcomes when set.
	Metrics *Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewClient creates a new API client. The returned client has no request
// timeout, cancel through the context instead.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// url builds a complete URL by joining the base URL and a resolved path.
func (c *Client) url(path string) string {
	return c.BaseURL + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) refreshToken(ctx context.Context) (string, bool) {
	if c.Credentials == nil {
		return "", false
	}
	tok, ok := c.Credentials.RefreshToken(ctx)
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

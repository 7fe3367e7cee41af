package tutorsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Do runs a request through the pipeline and decodes a successful JSON
// response into out. out may be nil when the response body is irrelevant.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	start := time.Now()
	err := c.do(ctx, r, out)
	c.Metrics.observe(r.method(), err, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, r Request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(resp, bodyBytes)
	}

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return &ParseError{Err: err}
	}

	c.validate(ctx, r.Path, out)
	return nil
}

// newRequest resolves the path, encodes the body and sets headers.
func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	path, err := ResolvePath(r.Path, r.PathParams)
	if err != nil {
		return nil, err
	}

	target := c.url(path)
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
		bearer      bool
	)

	switch r.encoding() {
	case EncodingJSON:
		contentType = "application/json"
		bearer = true
		if r.Body != nil {
			b, err := json.Marshal(r.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			body = bytes.NewReader(b)
		}
	case EncodingFile:
		buf, ct, err := encodeMultipart(r.Body)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	default:
		return nil, fmt.Errorf("tutorsdk: unknown encoding %q", r.Encoding)
	}

	req, err := http.NewRequestWithContext(ctx, r.method(), target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	if bearer {
		if tok, ok := c.refreshToken(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// validate applies the optional validator. Failures are reported and then
// ignored, the caller still receives the decoded value.
func (c *Client) validate(ctx context.Context, path string, out any) {
	if c.Validator == nil {
		return
	}

	if err := c.Validator.Validate(out); err != nil {
		c.logger().WarnContext(ctx, "response failed validation",
			"path", path,
			"issues", ValidationIssues(err),
		)
	}
}

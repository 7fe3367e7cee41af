package tutorsdk

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// DownloadResource fetches a binary resource. The persisted refresh token is
// sent as the bearer credential. The caller must Close the returned
// Resource.
func (c *Client) DownloadResource(ctx context.Context, id string) (*Resource, error) {
	start := time.Now()
	res, err := c.downloadResource(ctx, id)
	c.Metrics.observe(http.MethodGet, err, time.Since(start))
	return res, err
}

func (c *Client) downloadResource(ctx context.Context, id string) (*Resource, error) {
	path, err := ResolvePath("resource/{id}", map[string]string{"id": id})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if tok, ok := c.refreshToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, newRequestError(resp, bodyBytes)
	}

	res := &Resource{
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
		Body:        resp.Body,
	}
	if res.ContentType == "" {
		res.ContentType = "application/octet-stream"
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		res.Filename = params["filename"]
	}

	return res, nil
}

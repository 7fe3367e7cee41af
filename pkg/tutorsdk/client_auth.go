package tutorsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login exchanges credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var tok TokenResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "login",
		Body:   map[string]any{"email": req.Email, "password": req.Password},
	}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Refresh reissues a token pair from a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var tok TokenResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "refresh",
		Body:   map[string]any{"refreshToken": refreshToken},
	}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// jsonBody turns a tagged struct into a request body map.
func jsonBody(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return body, nil
}

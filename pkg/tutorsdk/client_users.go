package tutorsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Register creates a new account. With an avatar the request is sent as
// multipart, otherwise as JSON.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	r := Request{Method: http.MethodPost, Path: "users", Body: body}
	if req.Avatar != nil {
		r.Body["avatar"] = req.Avatar
		r.Encoding = EncodingFile
	}

	var user User
	if err := c.Do(ctx, r, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCurrentUser returns the profile of the signed-in user. Its role list
// drives the admin view.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "users/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser returns one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	err := c.Do(ctx, Request{
		Method:     http.MethodGet,
		Path:       "users/{id}",
		PathParams: map[string]string{"id": id},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes profile details. Only non-empty fields are sent.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	body := map[string]any{}
	if req.FirstName != "" {
		body["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		body["lastName"] = req.LastName
	}
	if req.Bio != "" {
		body["bio"] = req.Bio
	}
	if len(req.Interests) > 0 {
		body["interests"] = req.Interests
	}
	if req.Availability != nil {
		body["availability"] = req.Availability
	}
	if req.Avatar != nil {
		body["avatar"] = req.Avatar
	}

	var user User
	err := c.Do(ctx, Request{
		Method:     http.MethodPut,
		Path:       "users/{id}",
		PathParams: map[string]string{"id": id},
		Body:       body,
		Encoding:   EncodingFile,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMentors lists users holding the mentor role.
func (c *Client) ListMentors(ctx context.Context, f MentorFilter) ([]User, error) {
	q := url.Values{"role": {string(RoleMentor)}}
	if f.ProgramSchemeID != "" {
		q.Set("programSchemeId", f.ProgramSchemeID)
	}
	if f.CourseID != "" {
		q.Set("courseId", f.CourseID)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var users []User
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "users", Query: q}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

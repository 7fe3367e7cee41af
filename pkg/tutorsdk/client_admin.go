package tutorsdk

import (
	"context"
	"net/http"
)

// Admin operations. The backend rejects these unless the bearer belongs to
// an admin; the SDK does no client-side role check.

// AdminListUsers lists every user.
func (c *Client) AdminListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "admin/users"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminDeleteUser removes a user.
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.Do(ctx, Request{
		Method:     http.MethodDelete,
		Path:       "admin/users/{id}",
		PathParams: map[string]string{"id": id},
	}, nil)
}

// AdminSetUserRoles replaces a user's role list.
func (c *Client) AdminSetUserRoles(ctx context.Context, id string, roles Roles) (*User, error) {
	var user User
	err := c.Do(ctx, Request{
		Method:     http.MethodPut,
		Path:       "admin/users/{id}/roles",
		PathParams: map[string]string{"id": id},
		Body:       map[string]any{"roles": roles},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminCreateProgramScheme creates a scheme.
func (c *Client) AdminCreateProgramScheme(ctx context.Context, in ProgramSchemeInput) (*ProgramScheme, error) {
	return c.writeScheme(ctx, http.MethodPost, "admin/programScheme", nil, in)
}

// AdminUpdateProgramScheme replaces a scheme.
func (c *Client) AdminUpdateProgramScheme(ctx context.Context, id string, in ProgramSchemeInput) (*ProgramScheme, error) {
	return c.writeScheme(ctx, http.MethodPut, "admin/programScheme/{id}", map[string]string{"id": id}, in)
}

// AdminDeleteProgramScheme removes a scheme.
func (c *Client) AdminDeleteProgramScheme(ctx context.Context, id string) error {
	return c.Do(ctx, Request{
		Method:     http.MethodDelete,
		Path:       "admin/programScheme/{id}",
		PathParams: map[string]string{"id": id},
	}, nil)
}

// AdminCreateCourse creates a course.
func (c *Client) AdminCreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	return c.writeCourse(ctx, http.MethodPost, "admin/course", nil, in)
}

// AdminUpdateCourse replaces a course.
func (c *Client) AdminUpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	return c.writeCourse(ctx, http.MethodPut, "admin/course/{id}", map[string]string{"id": id}, in)
}

// AdminDeleteCourse removes a course.
func (c *Client) AdminDeleteCourse(ctx context.Context, id string) error {
	return c.Do(ctx, Request{
		Method:     http.MethodDelete,
		Path:       "admin/course/{id}",
		PathParams: map[string]string{"id": id},
	}, nil)
}

func (c *Client) writeScheme(ctx context.Context, method, path string, params map[string]string, in ProgramSchemeInput) (*ProgramScheme, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}

	var scheme ProgramScheme
	if err := c.Do(ctx, Request{Method: method, Path: path, PathParams: params, Body: body}, &scheme); err != nil {
		return nil, err
	}
	return &scheme, nil
}

func (c *Client) writeCourse(ctx context.Context, method, path string, params map[string]string, in CourseInput) (*Course, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}

	var course Course
	if err := c.Do(ctx, Request{Method: method, Path: path, PathParams: params, Body: body}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

package tutorsdk

import (
	"context"
	"net/http"
)

// ListProgramSchemes lists every scheme.
func (c *Client) ListProgramSchemes(ctx context.Context) ([]ProgramScheme, error) {
	var schemes []ProgramScheme
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "programScheme"}, &schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}

// GetProgramScheme returns one scheme.
func (c *Client) GetProgramScheme(ctx context.Context, id string) (*ProgramScheme, error) {
	var scheme ProgramScheme
	err := c.Do(ctx, Request{
		Method:     http.MethodGet,
		Path:       "programScheme/{id}",
		PathParams: map[string]string{"id": id},
	}, &scheme)
	if err != nil {
		return nil, err
	}
	return &scheme, nil
}

// ListCourses lists every course.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "course"}, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns one course.
func (c *Client) GetCourse(ctx context.Context, id string) (*Course, error) {
	var course Course
	err := c.Do(ctx, Request{
		Method:     http.MethodGet,
		Path:       "course/{id}",
		PathParams: map[string]string{"id": id},
	}, &course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

package tutorsdk

import "io"

// ============================================================================
// Auth Types
// ============================================================================

// TokenResponse is returned by POST login and POST refresh.
type TokenResponse struct {
	// AccessToken is a short-lived JWT. Only its exp claim is read client side.
	AccessToken string `json:"accessToken" validate:"required"`

	// RefreshToken is long-lived, persisted, and used as the bearer credential.
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginRequest carries user credentials for POST login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ============================================================================
// User Types
// ============================================================================

// RegisterRequest creates a new programme participant (POST users).
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StudentNumber string `json:"studentNumber,omitempty"`

	// Avatar switches the request to multipart encoding when set.
	Avatar *File `json:"-"`
}

// User is a registered participant.
type User struct {
	ID              string `json:"id" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Bio             string `json:"bio,omitempty"`
	Roles           Roles  `json:"roles"`
	ProgramSchemeID string `json:"programSchemeId,omitempty"`
	AvatarURL       string `json:"avatarUrl,omitempty"`

	// Interests are course codes or free-text topics, used for mentor matching.
	Interests []string `json:"interests,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && IsAdmin(u.Roles) }

// Availability is nested inside a profile update and travels as a JSON part.
type Availability struct {
	Weekdays []string `json:"weekdays,omitempty"`
	Hours    string   `json:"hours,omitempty"`
	Remote   bool     `json:"remote"`
}

// UpdateUserRequest changes profile details (PUT users/{id}). It is always
// sent as multipart so an avatar can ride along.
type UpdateUserRequest struct {
	FirstName    string
	LastName     string
	Bio          string
	Interests    []string
	Availability *Availability
	Avatar       *File
}

// MentorFilter narrows GET users?role=mentor.
type MentorFilter struct {
	ProgramSchemeID string
	CourseID        string
	Search          string
}

// ============================================================================
// Programme Types
// ============================================================================

// ProgramScheme is a mentorship/tutorship scheme users can browse and join.
type ProgramScheme struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	CourseIDs   []string `json:"courseIds,omitempty"`
}

// ProgramSchemeInput creates or updates a scheme (admin).
type ProgramSchemeInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	CourseIDs   []string `json:"courseIds,omitempty"`
}

// Course is a university course mentors can be matched on.
type Course struct {
	ID          string `json:"id" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CourseInput creates or updates a course (admin).
type CourseInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ============================================================================
// Resource Types
// ============================================================================

// Resource is a downloaded binary. The caller owns Body and must Close it.
type Resource struct {
	ContentType string
	Filename    string
	Size        int64 // -1 when unknown
	Body        io.ReadCloser
}

// Close releases the underlying response body.
func (r *Resource) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

package tutorsdk

import (
	"fmt"
	"slices"
	"strings"
)

// Role is one of the fixed programme roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleAdmin   Role = "admin"
)

// AllRoles lists every known role.
var AllRoles = []Role{RoleStudent, RoleMentor, RoleAdmin}

// ParseRole maps a case-insensitive name onto a known role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllRoles, r) {
		return "", fmt.Errorf("tutorsdk: unknown role %q", s)
	}
	return r, nil
}

// Roles is the role list attached to a user.
type Roles []Role

// Has reports membership.
func (rs Roles) Has(r Role) bool { return slices.Contains(rs, r) }

// IsAdmin is true iff the list contains RoleAdmin.
func IsAdmin(rs Roles) bool { return rs.Has(RoleAdmin) }

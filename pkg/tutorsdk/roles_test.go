package tutorsdk_test

import (
	"testing"

	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := tutorsdk.ParseRole(" Admin ")
	require.NoError(t, err)
	require.Equal(t, tutorsdk.RoleAdmin, r)

	_, err = tutorsdk.ParseRole("superuser")
	require.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	require.False(t, tutorsdk.IsAdmin(nil))
	require.False(t, tutorsdk.IsAdmin(tutorsdk.Roles{tutorsdk.RoleStudent, tutorsdk.RoleMentor}))
	require.True(t, tutorsdk.IsAdmin(tutorsdk.Roles{tutorsdk.RoleStudent, tutorsdk.RoleAdmin}))

	var nilUser *tutorsdk.User
	require.False(t, nilUser.IsAdmin())
}

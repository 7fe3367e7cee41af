package tutorsdk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a handful of programme endpoints.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req tutorsdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"accessToken":"at","refreshToken":"rt"}`)
	})

	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "mentor", q.Get("role"))
		require.Equal(t, "COMP1511", q.Get("courseId"))
		require.False(t, q.Has("search"))
		_, _ = io.WriteString(w, `[{"id":"m1","email":"m1@uni.edu","roles":["mentor"]}]`)
	})

	mux.HandleFunc("PUT /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Grace", r.FormValue("firstName"))
		require.Equal(t, []string{"COMP1511", "MATH1131"}, r.MultipartForm.Value["interests"])

		// Nested structs arrive as JSON file parts.
		fh := r.MultipartForm.File["availability"]
		require.Len(t, fh, 1)
		require.Equal(t, "blob", fh[0].Filename)

		_, _ = io.WriteString(w, `{"id":"`+r.PathValue("id")+`","email":"g@uni.edu","firstName":"Grace"}`)
	})

	mux.HandleFunc("GET /resource/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer rt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="notes.pdf"`)
		_, _ = io.WriteString(w, "%PDF")
	})

	mux.HandleFunc("PUT /admin/users/{id}/roles", func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []string{"mentor", "admin"}, body["roles"])
		_, _ = io.WriteString(w, `{"id":"u1","email":"u1@uni.edu","roles":["mentor","admin"]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	t.Parallel()

	client := tutorsdk.NewClient(fakeAPI(t).URL)

	tok, err := client.Login(context.Background(), tutorsdk.LoginRequest{Email: "a@uni.edu", Password: "hunter2"})
	require.NoError(t, err)
	require.Equal(t, "at", tok.AccessToken)
	require.Equal(t, "rt", tok.RefreshToken)

	_, err = client.Login(context.Background(), tutorsdk.LoginRequest{Email: "a@uni.edu", Password: "nope"})
	var reqErr *tutorsdk.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	require.Equal(t, "invalid credentials", reqErr.Message)
}

func TestListMentors(t *testing.T) {
	t.Parallel()

	client := tutorsdk.NewClient(fakeAPI(t).URL)

	mentors, err := client.ListMentors(context.Background(), tutorsdk.MentorFilter{CourseID: "COMP1511"})
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	require.True(t, mentors[0].Roles.Has(tutorsdk.RoleMentor))
	require.False(t, mentors[0].IsAdmin())
}

func TestUpdateUserSendsMultipart(t *testing.T) {
	t.Parallel()

	client := tutorsdk.NewClient(fakeAPI(t).URL)

	user, err := client.UpdateUser(context.Background(), "u42", tutorsdk.UpdateUserRequest{
		FirstName:    "Grace",
		Interests:    []string{"COMP1511", "MATH1131"},
		Availability: &tutorsdk.Availability{Weekdays: []string{"tue"}, Remote: true},
	})
	require.NoError(t, err)
	require.Equal(t, "u42", user.ID)
	require.Equal(t, "Grace", user.FirstName)
}

func TestAdminSetUserRoles(t *testing.T) {
	t.Parallel()

	client := tutorsdk.NewClient(fakeAPI(t).URL)

	user, err := client.AdminSetUserRoles(context.Background(), "u1", tutorsdk.Roles{tutorsdk.RoleMentor, tutorsdk.RoleAdmin})
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
}

func TestDownloadResource(t *testing.T) {
	t.Parallel()

	client := tutorsdk.NewClient(fakeAPI(t).URL)

	_, err := client.DownloadResource(context.Background(), "r1")
	require.Equal(t, http.StatusUnauthorized, tutorsdk.StatusCode(err))

	client.Credentials = staticCredentials{token: "rt"}
	res, err := client.DownloadResource(context.Background(), "r1")
	require.NoError(t, err)
	defer res.Close()

	require.Equal(t, "application/pdf", res.ContentType)
	require.Equal(t, "notes.pdf", res.Filename)

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data))
}

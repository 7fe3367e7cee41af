package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	render := httpx.Decision{Outcome: httpx.Render}
	loading := httpx.Decision{Outcome: httpx.Loading}
	toLogin := httpx.Decision{Outcome: httpx.Redirect, Location: httpx.LoginPath}
	toHome := httpx.Decision{Outcome: httpx.Redirect, Location: httpx.HomePath}

	cases := []struct {
		name  string
		level httpx.AccessLevel
		state httpx.GuardState
		want  httpx.Decision
	}{
		{"admin initializing", httpx.Admin, httpx.GuardState{Initializing: true, Authenticated: true, Admin: true}, loading},
		{"admin initializing signed out", httpx.Admin, httpx.GuardState{Initializing: true}, loading},
		{"authenticated initializing", httpx.Authenticated, httpx.GuardState{Initializing: true}, loading},
		{"unauthenticated initializing", httpx.Unauthenticated, httpx.GuardState{Initializing: true}, loading},
		{"admin signed out", httpx.Admin, httpx.GuardState{}, toLogin},
		{"admin signed in not admin", httpx.Admin, httpx.GuardState{Authenticated: true}, toHome},
		{"admin signed in admin", httpx.Admin, httpx.GuardState{Authenticated: true, Admin: true}, render},
		{"admin flag without session", httpx.Admin, httpx.GuardState{Admin: true}, toLogin},
		{"authenticated signed out", httpx.Authenticated, httpx.GuardState{}, toLogin},
		{"authenticated signed in", httpx.Authenticated, httpx.GuardState{Authenticated: true}, render},
		{"unauthenticated signed in", httpx.Unauthenticated, httpx.GuardState{Authenticated: true}, toHome},
		{"unauthenticated signed out", httpx.Unauthenticated, httpx.GuardState{}, render},
		{"pending signed out", httpx.Pending, httpx.GuardState{}, render},
		{"pending signed in", httpx.Pending, httpx.GuardState{Authenticated: true, Admin: true}, render},
		{"pending initializing", httpx.Pending, httpx.GuardState{Initializing: true}, render},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, httpx.Decide(tc.level, tc.state))
		})
	}
}

func fixedState(st httpx.GuardState) httpx.StateFunc {
	return func(context.Context, httpx.AccessLevel) httpx.GuardState { return st }
}

func TestGuard(t *testing.T) {
	t.Parallel()

	var seen httpx.GuardState
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.GuardStateFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("render passes state downstream", func(t *testing.T) {
		st := httpx.GuardState{Authenticated: true, Admin: true}
		h := httpx.Guard(httpx.Admin, fixedState(st))(next)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, st, seen)
	})

	t.Run("loading", func(t *testing.T) {
		h := httpx.Guard(httpx.Authenticated, fixedState(httpx.GuardState{Initializing: true}))(next)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, "1", rec.Header().Get("Retry-After"))
		require.JSONEq(t, `{"status":"loading"}`, rec.Body.String())
	})

	t.Run("redirect to login", func(t *testing.T) {
		h := httpx.Guard(httpx.Authenticated, fixedState(httpx.GuardState{}))(next)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, httpx.LoginPath, rec.Header().Get("Location"))
	})

	t.Run("redirect home", func(t *testing.T) {
		h := httpx.Guard(httpx.Unauthenticated, fixedState(httpx.GuardState{Authenticated: true}))(next)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, httpx.HomePath, rec.Header().Get("Location"))
	})
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

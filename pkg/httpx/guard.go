package httpx

import (
	"context"
	"fmt"
	"net/http"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// AccessLevel is the requirement a route places on the session.
type AccessLevel int

const (
	// Pending routes render in every session state, including while the
	// session is still initializing.
	Pending AccessLevel = iota
	Unauthenticated
	Authenticated
	Admin
)

func (l AccessLevel) String() string {
	switch l {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("AccessLevel(%d)", int(l))
	}
}

// GuardState is the session as seen by the guard.
type GuardState struct {
	Initializing  bool
	Authenticated bool
	Admin         bool
}

type Outcome int

const (
	Render Outcome = iota
	Loading
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Decision is what the guard does with a request. Location is set only for
// Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide maps an access level and session state to a decision. Rules are
// checked in order:
//
//	pending                             -> render
//	initializing                        -> loading
//	unauthenticated and signed in       -> redirect home
//	authenticated/admin and signed out  -> redirect to login
//	admin and not an admin              -> redirect home
//	otherwise                           -> render
func Decide(level AccessLevel, st GuardState) Decision {
	if level == Pending {
		return Decision{Outcome: Render}
	}
	if st.Initializing {
		return Decision{Outcome: Loading}
	}

	switch level {
	case Unauthenticated:
		if st.Authenticated {
			return Decision{Outcome: Redirect, Location: HomePath}
		}
	case Authenticated:
		if !st.Authenticated {
			return Decision{Outcome: Redirect, Location: LoginPath}
		}
	case Admin:
		if !st.Authenticated {
			return Decision{Outcome: Redirect, Location: LoginPath}
		}
		if !st.Admin {
			return Decision{Outcome: Redirect, Location: HomePath}
		}
	}
	return Decision{Outcome: Render}
}

// StateFunc reports the session state for a request.
type StateFunc func(ctx context.Context, level AccessLevel) GuardState

// Guard enforces an access level. Loading answers 202 with a Retry-After so
// clients poll until the session settles. Redirects use 302.
func Guard(level AccessLevel, state StateFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			st := state(ctx, level)

			switch d := Decide(level, st); d.Outcome {
			case Loading:
				w.Header().Set("Retry-After", "1")
				WriteJSON(w, http.StatusAccepted, map[string]string{"status": "loading"})
			case Redirect:
				NoCache(w)
				http.Redirect(w, r, d.Location, http.StatusFound)
			default:
				ctx = context.WithValue(ctx, CtxKeyGuardState, st)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

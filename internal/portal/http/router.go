package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tutorship/internal/session"
	"github.com/aussiebroadwan/tutorship/internal/storage"
	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/aussiebroadwan/tutorship/pkg/slogx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	validate     *validator.Validate

	session  *session.Store
	client   *tutorsdk.Client
	store    storage.Store
	gatherer prometheus.Gatherer

	LoginLimit    httpx.RateLimitConfig
	RegisterLimit httpx.RateLimitConfig
}

func NewRouter(
	sess *session.Store,
	client *tutorsdk.Client,
	st storage.Store,
	gatherer prometheus.Gatherer,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		session:       sess,
		client:        client,
		store:         st,
		gatherer:      gatherer,
		LoginLimit:    httpx.LoginLimit,
		RegisterLimit: httpx.RegisterLimit,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerSession()
	r.registerProfile()
	r.registerProgramme()
	r.registerResources()
	r.registerAdmin()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// guarded registers a handler behind the route guard.
func (r *Router) guarded(pattern string, level httpx.AccessLevel, h http.Handler, mws ...httpx.Middleware) {
	mws = append([]httpx.Middleware{httpx.Guard(level, r.guardState)}, mws...)
	r.Mux.Handle(pattern, httpx.Chain(h, mws...))
}

// guardState derives the guard's view of the session. The profile is only
// fetched for admin routes.
func (r *Router) guardState(ctx context.Context, level httpx.AccessLevel) httpx.GuardState {
	snap := r.session.Snapshot()
	st := httpx.GuardState{
		Initializing:  snap.Initializing,
		Authenticated: snap.State == session.Authenticated,
	}
	if level == httpx.Admin && st.Authenticated && !st.Initializing {
		st.Admin = r.session.IsAdmin(ctx)
	}
	return st
}

func (r *Router) registerSystem() {
	r.guarded("GET /healthz", httpx.Pending, HealthzHandler(r.startTime, r.buildVersion, r.store))
	r.guarded("GET /metrics", httpx.Pending, promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	prefs := &PreferencesHandler{Prefs: r.store.LocalStorage(), Validate: r.validate}
	r.guarded("GET /preferences", httpx.Pending, http.HandlerFunc(prefs.HandleGet))
	r.guarded("PUT /preferences", httpx.Pending, http.HandlerFunc(prefs.HandlePut))
}

func (r *Router) registerSession() {
	h := &SessionHandler{Session: r.session, Client: r.client, Validate: r.validate}

	r.guarded("GET /login", httpx.Unauthenticated, http.HandlerFunc(h.HandleLoginPage))

	// Keyed by IP and submitted email against brute force.
	r.guarded("POST /login", httpx.Unauthenticated, http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIPAndFormField(r.LoginLimit, "email"),
	)
	r.guarded("POST /register", httpx.Unauthenticated, http.HandlerFunc(h.HandleRegister),
		httpx.RateLimitByIP(r.RegisterLimit),
	)
	r.guarded("POST /logout", httpx.Authenticated, http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Session: r.session, Client: r.client}

	r.guarded("GET /{$}", httpx.Authenticated, http.HandlerFunc(h.HandleHome))
	r.guarded("GET /profile", httpx.Authenticated, http.HandlerFunc(h.HandleGet))
	r.guarded("PUT /profile", httpx.Authenticated, http.HandlerFunc(h.HandleUpdate))
}

func (r *Router) registerProgramme() {
	h := &ProgrammeHandler{Client: r.client}

	r.guarded("GET /schemes", httpx.Authenticated, http.HandlerFunc(h.HandleListSchemes))
	r.guarded("GET /schemes/{id}", httpx.Authenticated, http.HandlerFunc(h.HandleGetScheme))
	r.guarded("GET /courses", httpx.Authenticated, http.HandlerFunc(h.HandleListCourses))
	r.guarded("GET /courses/{id}", httpx.Authenticated, http.HandlerFunc(h.HandleGetCourse))
	r.guarded("GET /mentors", httpx.Authenticated, http.HandlerFunc(h.HandleListMentors))
}

func (r *Router) registerResources() {
	h := &ResourceHandler{Client: r.client}
	r.guarded("GET /resources/{id}", httpx.Authenticated, h)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Client: r.client, Validate: r.validate}

	r.guarded("GET /admin/users", httpx.Admin, http.HandlerFunc(h.HandleListUsers))
	r.guarded("DELETE /admin/users/{id}", httpx.Admin, http.HandlerFunc(h.HandleDeleteUser))
	r.guarded("PUT /admin/users/{id}/roles", httpx.Admin, http.HandlerFunc(h.HandleSetRoles))
	r.guarded("POST /admin/schemes", httpx.Admin, http.HandlerFunc(h.HandleCreateScheme))
	r.guarded("PUT /admin/schemes/{id}", httpx.Admin, http.HandlerFunc(h.HandleUpdateScheme))
	r.guarded("DELETE /admin/schemes/{id}", httpx.Admin, http.HandlerFunc(h.HandleDeleteScheme))
	r.guarded("POST /admin/courses", httpx.Admin, http.HandlerFunc(h.HandleCreateCourse))
	r.guarded("PUT /admin/courses/{id}", httpx.Admin, http.HandlerFunc(h.HandleUpdateCourse))
	r.guarded("DELETE /admin/courses/{id}", httpx.Admin, http.HandlerFunc(h.HandleDeleteCourse))
}

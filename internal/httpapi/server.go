package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Engine is the subset of *goSession.Engine the handlers call.
type Engine interface {
	Validate(ctx context.Context, token string) (*goSession.IdentityClaim, error)
	Login(ctx context.Context, email, password string) (*goSession.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (goSession.PublicUser, error)
	Health(ctx context.Context) goSession.HealthStatus
}

// Options configures a Server. Zero values fall back to goSession defaults.
type Options struct {
	Cookie   goSession.CookieConfig
	TokenTTL time.Duration
	Logger   logrus.FieldLogger
	// AllowedOrigins lists CORS origins. Empty reflects any origin.
	AllowedOrigins []string
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
	// ServiceName labels server spans. Empty disables otelhttp wrapping.
	ServiceName string
}

// Server routes requests to an Engine.
type Server struct {
	engine  Engine
	cookie  goSession.CookieConfig
	ttl     time.Duration
	logger  logrus.FieldLogger
	origins []string
	metrics http.Handler
	service string
	router  *mux.Router
}

// New builds the router. The engine must be non-nil.
func New(engine Engine, opts Options) *Server {
	defaults := goSession.DefaultConfig()
	if opts.Cookie.Name == "" {
		opts.Cookie = defaults.Cookie
	}
	if opts.Cookie.Path == "" {
		opts.Cookie.Path = "/"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaults.JWT.TokenTTL
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}

	s := &Server{
		engine:  engine,
		cookie:  opts.Cookie,
		ttl:     opts.TokenTTL,
		logger:  opts.Logger,
		origins: opts.AllowedOrigins,
		metrics: opts.Metrics,
		service: opts.ServiceName,
	}
	s.routes()
	return s
}

// ForEngine is New with cookie and TTL taken from the engine's own config.
func ForEngine(engine *goSession.Engine, opts Options) *Server {
	cfg := engine.Config()
	opts.Cookie = cfg.Cookie
	opts.TokenTTL = cfg.JWT.TokenTTL
	return New(engine, opts)
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	guard := middleware.New(s.engine,
		middleware.WithCookieName(s.cookie.Name),
		middleware.WithErrorHandler(s.rejectUnauthenticated),
	).Wrap

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.Handle("/verify", guard(http.HandlerFunc(s.handleVerify))).Methods(http.MethodGet)
	api.Handle("/logout", guard(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)
	api.Handle("/profile", guard(http.HandlerFunc(s.handleProfile))).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	s.router = r
}

// Router returns the bare router without the middleware chain.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler returns the router wrapped in CORS, request logging, panic
// recovery, and (when ServiceName is set) otelhttp tracing.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = recoverPanics(s.logger)(h)
	h = requestContext(h)
	h = logRequests(s.logger)(h)
	h = cors(s.origins)(h)
	if s.service != "" {
		h = otelhttp.NewHandler(h, s.service)
	}
	return h
}

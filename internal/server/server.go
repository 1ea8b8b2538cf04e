package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/mapty/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker    *tracker.Tracker
	log        *slog.Logger
	apiKey     string
	corsOrigin string
	router     chi.Router
}

// Option customizes a Server built by New.
type Option func(*Server)

// WithCORSOrigin sets the origin allowed to call the API from a browser.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// New creates a new Server with all routes configured. An empty apiKey leaves
// the mutating routes open, which is the expected setup behind tsnet.
func New(t *tracker.Tracker, apiKey string, log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		tracker:    t,
		log:        log,
		apiKey:     apiKey,
		corsOrigin: "*",
		router:     chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(s.corsOrigin))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1/workouts", func(r chi.Router) {
		r.Get("/", s.handleListWorkouts)
		r.Get("/{id}", s.handleGetWorkout)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleLogWorkout)
			r.Post("/{id}/click", s.handleClickWorkout)
			r.Delete("/{id}", s.handleDeleteWorkout)
			r.Delete("/", s.handleResetWorkouts)
		})
	})
}

// HandleMCP mounts an MCP HTTP transport at /mcp behind the API key.
func (s *Server) HandleMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

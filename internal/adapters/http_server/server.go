package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// DefaultRequestTimeout caps a request unless WithRequestTimeout says otherwise.
const DefaultRequestTimeout = 15 * time.Second

type Server struct {
	mux     *chi.Mux
	timeout time.Duration
}

type Option func(*Server)

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New builds the router with its middleware stack. chi panics if Use is
// called after a route exists, so the stack is fixed here.
func New(opts ...Option) *Server {
	s := &Server{mux: chi.NewRouter(), timeout: DefaultRequestTimeout}
	for _, o := range opts {
		o(s)
	}

	s.mux.Use(
		chimw.RealIP,
		chimw.RequestID,
		chimw.Recoverer,
		Timeout(s.timeout),
		Metrics,
		Logger(log.Logger),
	)
	return s
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount serves h at an exact path outside the /v1 API, e.g. /metrics.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

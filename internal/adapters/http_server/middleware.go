package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"travel_hotels/internal/adapters/observability"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// RateLimit answers 429 when the shared bucket is empty. nil disables it.
func RateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "write rate limit exceeded", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestDone runs after next has served r.
type requestDone func(r *http.Request, status int, elapsed time.Duration)

func observe(next http.Handler, done requestDone) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK // nothing written
		}
		done(r, status, time.Since(start))
	})
}

// routePattern is the matched chi template, so /v1/hotels/{id} is one series.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func Metrics(next http.Handler) http.Handler {
	return observe(next, func(r *http.Request, status int, elapsed time.Duration) {
		observability.ObserveHTTP(routePattern(r), r.Method, status, elapsed)
	})
}

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return observe(next, func(r *http.Request, status int, elapsed time.Duration) {
			l.Info().
				Str("route", routePattern(r)).
				Str("method", r.Method).
				Int("status", status).
				Dur("duration", elapsed).
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("remote", clientHost(r)).
				Msg("http_request")
		})
	}
}

// clientHost drops the port. RealIP has already applied any proxy headers.
func clientHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// Package fixture is a local stand-in for the reverse proxy under test. It
// serves the three virtual hosts the acceptance run expects (content,
// forbidden and TLS content) with one rate-limit zone shared by the content
// and TLS hosts.
package fixture

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Options struct {
	Body            string
	ForbiddenStatus int
	LimitedStatus   int
	// RatePerSecond and Burst size the shared zone; RatePerSecond <= 0
	// disables limiting.
	RatePerSecond float64
	Burst         int
}

// DefaultOptions mirror a typical limit_req setup: 10r/s with a burst of 5.
func DefaultOptions() Options {
	return Options{
		Body:            "<html><body><h1>Hello from Nginx!</h1></body></html>\n",
		ForbiddenStatus: http.StatusForbidden,
		LimitedStatus:   http.StatusTooManyRequests,
		RatePerSecond:   10,
		Burst:           5,
	}
}

type Fixture struct {
	Logger *zap.Logger
	opts   Options
	zone   *zone
}

func New(l *zap.Logger, opts Options) *Fixture {
	if l == nil {
		l = zap.NewNop()
	}
	if opts.ForbiddenStatus == 0 {
		opts.ForbiddenStatus = http.StatusForbidden
	}
	if opts.LimitedStatus == 0 {
		opts.LimitedStatus = http.StatusTooManyRequests
	}
	f := &Fixture{Logger: l, opts: opts}
	if opts.RatePerSecond > 0 {
		f.zone = newZone(opts.RatePerSecond, max(opts.Burst, 1))
	}
	return f
}

// Reset refills every bucket in the shared zone.
func (f *Fixture) Reset() {
	if f.zone != nil {
		f.zone.reset()
	}
}

func (f *Fixture) ContentHandler() http.Handler {
	return f.router("content", true, f.serveContent)
}

func (f *Fixture) ForbiddenHandler() http.Handler {
	return f.router("forbidden", false, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(f.opts.ForbiddenStatus), f.opts.ForbiddenStatus)
	})
}

func (f *Fixture) TLSHandler() http.Handler {
	return f.router("tls", true, f.serveContent)
}

func (f *Fixture) serveContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(f.opts.Body))
}

func (f *Fixture) router(vhost string, limited bool, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(f.accessLog(vhost))
	if limited && f.zone != nil {
		r.Use(f.zone.limit(f.opts.LimitedStatus))
	}
	r.Get("/*", h)
	return r
}

func (f *Fixture) accessLog(vhost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			f.Logger.Debug("fixture_request",
				zap.String("vhost", vhost),
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

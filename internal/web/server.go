package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dyike/stockfetch/internal/config"
	"github.com/dyike/stockfetch/internal/sources"
)

//go:embed templates/*.html
var templateFS embed.FS

// browserDelay gives ListenAndServe a head start before the browser
// issues its first request.
const browserDelay = 1250 * time.Millisecond

// Server renders the fetch form and result pages over HTTP.
type Server struct {
	cfg       *config.Config
	logger    *log.Logger
	templates *template.Template

	// newSource builds the provider for a request. Tests swap it out.
	newSource func(name string, cfg *config.Config) (sources.DataSource, error)
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:       cfg,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		newSource: sources.New,
	}
}

// Handler returns the full routing and middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/fetch", s.handleFetch)
	return s.logRequests(s.recoverPanic(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.WebAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("[INFO] serving on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	var browserTimer *time.Timer
	if s.cfg.OpenBrowser {
		url := "http://" + srv.Addr
		browserTimer = time.AfterFunc(browserDelay, func() {
			if err := openBrowser(url); err != nil {
				s.logger.Printf("[WARN] could not open browser: %v", err)
			}
		})
	}

	select {
	case err := <-errCh:
		if browserTimer != nil {
			browserTimer.Stop()
		}
		return err
	case <-ctx.Done():
	}
	if browserTimer != nil {
		browserTimer.Stop()
	}

	s.logger.Printf("[INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

// render buffers template output so an execution error never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Printf("[ERROR] render %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("[INFO] %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// recoverPanic protects handlers from panics.
func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Printf("[ERROR] panic serving %s: %v", r.URL.Path, rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"classmin/internal/obfuscator"
)

// MaxBodySize is the largest document accepted by POST /minify
const MaxBodySize = 10 << 20

// MinifyResponse is the JSON body returned by POST /minify
type MinifyResponse struct {
	Minified          string                  `json:"minified"`
	OriginalBytes     int                     `json:"original_bytes"`
	MinifiedBytes     int                     `json:"minified_bytes"`
	ReducedBytes      int                     `json:"reduced_bytes"`
	ReducedPercentage float64                 `json:"reduced_percentage"`
	Classes           []obfuscator.AliasEntry `json:"classes"`
}

// ServerOption configures optional Server behavior
type ServerOption func(*Server)

// WithLogger sets the logger for requests and minifier sessions
func WithLogger(log *zap.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSessionOptions applies opts to every per-request minifier session
func WithSessionOptions(opts ...obfuscator.Option) ServerOption {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// Server exposes the minifier over HTTP. Every request gets its own
// session, so requests never share aliases.
type Server struct {
	router      chi.Router
	log         *zap.Logger
	sessionOpts []obfuscator.Option
}

// NewServer creates a Server with all routes configured
func NewServer(opts ...ServerOption) *Server {
	s := &Server{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("server")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/minify", s.handleMinify)

	s.router = r
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// handleHealth returns a JSON health check response
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMinify runs a fresh session over the request body. The optional
// whitelist query parameter holds comma separated fragments to protect.
func (s *Server) handleMinify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large (max 10MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "request body is empty")
		return
	}

	opts := append([]obfuscator.Option{obfuscator.WithLogger(s.log)}, s.sessionOpts...)
	if list := r.URL.Query().Get("whitelist"); list != "" {
		opts = append(opts, obfuscator.WithWhitelist(splitList(list)...))
	}

	m, err := obfuscator.New(opts...)
	if err != nil {
		s.log.Error("Unable to create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create minifier session")
		return
	}

	result := m.Minify(string(body))
	writeJSON(w, http.StatusOK, MinifyResponse{
		Minified:          result.Minified,
		OriginalBytes:     result.OriginalBytes,
		MinifiedBytes:     result.MinifiedBytes,
		ReducedBytes:      result.ReducedBytes(),
		ReducedPercentage: result.ReducedPercentage(),
		Classes:           m.Aliases(),
	})
}

// requestLogger logs every request with its status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info("Request",
				zap.String("id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// splitList splits a comma separated list, dropping blank items
func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/theirongolddev/savearn/internal/logging"
)

// corsHeaders mirror what browser clients of the hosted API expect.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "false",
	"Access-Control-Allow-Headers":     "Content-Type,Authorization,X-Api-Key,Accept,Accept-Language,Accept-Encoding",
	"Access-Control-Allow-Methods":     "GET,POST,PUT,DELETE,OPTIONS",
	"Access-Control-Max-Age":           "86400",
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestInfo is filled in by inner handlers for the access log.
type requestInfo struct {
	user string
}

type infoKey struct{}

func infoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(infoKey{}).(*requestInfo)
	return info
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), infoKey{}, info)))

		s.requests.Add(1)
		level := slog.LevelInfo
		switch {
		case rec.status >= 500:
			level = slog.LevelError
			s.failures.Add(1)
		case rec.status >= 400:
			level = slog.LevelWarn
		}
		s.log.Log(r.Context(), level, "request",
			logging.FieldMethod, r.Method,
			logging.FieldPath, r.URL.Path,
			logging.FieldStatus, rec.status,
			logging.FieldDuration, time.Since(start).Milliseconds(),
			logging.FieldUser, info.user,
		)
	})
}

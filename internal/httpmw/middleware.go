// Package httpmw carries the middleware chain shared by the game session
// server and the leaderboard service: request ids, panic recovery, and
// JSON-line access logs.
package httpmw

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Middleware wraps a handler with one cross-cutting concern.
type Middleware func(http.Handler) http.Handler

type contextKey string

const requestIDKey contextKey = "cursorrrr.request_id"

// Chain applies middlewares so the first argument runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithRequestID honors an incoming X-Request-Id or mints a uuid, echoes it
// on the response, and stores it in the request context.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", rid)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, rid)))
	})
}

type panicRecord struct {
	TS        string `json:"ts"`
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Panic     string `json:"panic"`
	Stack     string `json:"stack"`
}

// WithRecover converts handler panics into a 500, JSON-bodied on API
// paths, and logs the stack as one JSON line.
func WithRecover(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				emit(logger, panicRecord{
					TS:        time.Now().UTC().Format(time.RFC3339Nano),
					Level:     "error",
					Msg:       "panic_recovered",
					RequestID: RequestIDFromContext(r.Context()),
					Method:    r.Method,
					Path:      r.URL.Path,
					Panic:     fmt.Sprint(rec),
					Stack:     string(debug.Stack()),
				})

				if strings.HasPrefix(r.URL.Path, "/api/") {
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{"error": "internal server error"})
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type accessRecord struct {
	TS         string `json:"ts"`
	Level      string `json:"level"`
	Msg        string `json:"msg"`
	RequestID  string `json:"request_id"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	Bytes      int    `json:"bytes"`
	DurationMS int64  `json:"duration_ms"`
	RemoteIP   string `json:"remote_ip"`
}

// WithAccessLog writes one JSON line per request after it completes.
func WithAccessLog(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			emit(logger, accessRecord{
				TS:         time.Now().UTC().Format(time.RFC3339Nano),
				Level:      "info",
				Msg:        "http_request",
				RequestID:  RequestIDFromContext(r.Context()),
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     sw.status,
				Bytes:      sw.bytes,
				DurationMS: time.Since(start).Milliseconds(),
				RemoteIP:   clientIP(r),
			})
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func clientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xrip != "" {
		return xrip
	}
	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emit(logger *log.Logger, record any) {
	b, err := json.Marshal(record)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Println(string(b))
}

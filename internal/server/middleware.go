package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader is read from incoming requests and always set on responses.
const RequestIDHeader = "X-Request-ID"

const unmatchedRoute = "unmatched"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned to the request, or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(body []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(body)
}

type middleware struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// chain wraps next with every middleware, outermost first.
func (m *middleware) chain(next http.Handler) http.Handler {
	return m.requestID(m.instrument(m.recoverPanic(next)))
}

func (m *middleware) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// instrument logs one line per request and records the HTTP metrics.
// Routes are labelled by template so ids do not explode label cardinality.
func (m *middleware) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := routeTemplate(r)
		duration := time.Since(start)

		if m.metrics != nil {
			m.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
			m.metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
		}

		m.log.InfoContext(r.Context(), "request handled",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", recorder.status),
			slog.Duration("duration", duration),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		)
	})
}

// recoverPanic turns a handler panic into a 500 envelope when nothing was written yet.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func (m *middleware) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			m.log.ErrorContext(r.Context(), "panic while handling request",
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)

			if recorder.wroteHeader {
				return
			}
			writeJSON(w, m.log, http.StatusInternalServerError,
				errs.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)))
		}()

		next.ServeHTTP(recorder, r)
	})
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}

	template, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}

	return template
}

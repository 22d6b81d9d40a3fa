package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware() *middleware {
	return &middleware{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	t.Run("writes envelope when nothing was sent", func(t *testing.T) {
		t.Parallel()

		handler := newTestMiddleware().recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employees", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "INTERNAL_SERVER_ERROR")
	})

	t.Run("keeps a response already started", func(t *testing.T) {
		t.Parallel()

		handler := newTestMiddleware().recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("partial"))
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employees", nil))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, "partial", rr.Body.String())
	})

	t.Run("keeps a body written without explicit header", func(t *testing.T) {
		t.Parallel()

		handler := newTestMiddleware().recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("partial"))
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employees", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "partial", rr.Body.String())
	})

	t.Run("re-raises abort handler", func(t *testing.T) {
		t.Parallel()

		handler := newTestMiddleware().recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/employees", nil))
		})
	})
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	t.Parallel()

	recorder := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	recorder.WriteHeader(http.StatusNotFound)
	recorder.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusNotFound, recorder.status)
	assert.True(t, recorder.wroteHeader)
}

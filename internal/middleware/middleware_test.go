package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLogger_RecordsStatusAndRequestID(t *testing.T) {
	logger, buf := newBufferLogger()

	h := chimiddleware.RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "requestID=req-42")
	assert.Contains(t, out, "path=/api/courses")
	assert.Contains(t, out, "bytes=15")
}

func TestLogger_ImplicitOK(t *testing.T) {
	logger, buf := newBufferLogger()

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "status=200")
}

func TestRecover(t *testing.T) {
	logger, buf := newBufferLogger()

	h := Recover(logger, "An internal error occurred")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/courses", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"An internal error occurred"}`, rr.Body.String())
	assert.Contains(t, buf.String(), "nil map write")
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	logger, _ := newBufferLogger()

	h := Recover(logger, "x")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

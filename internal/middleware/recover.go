package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Recover turns a panic in any later handler into a logged stack trace and a
// JSON 500 with the same body as every other internal error. chi's own
// Recoverer prints to stderr and answers in plain text.
//
// http.ErrAbortHandler is re-panicked: net/http uses it to abort a response
// on purpose and handles it quietly.
func Recover(logger *slog.Logger, message string) func(http.Handler) http.Handler {
	body, _ := json.Marshal(map[string]string{"message": message})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("requestID", chimiddleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(append(body, '\n'))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

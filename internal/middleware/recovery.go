package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"freshguard-api/pkg/apierror"
	"freshguard-api/pkg/response"
)

// Recovery is a middleware that recovers from panics.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.Error("panic recovered",
					"error", err,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)

				response.Error(w, apierror.InternalError(""))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

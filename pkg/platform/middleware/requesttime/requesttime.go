// Package requesttime provides middleware for request-scoped time. All work
// done for one request observes the same "now".
package requesttime

import (
	"net/http"
	"time"

	"fiscalcheck/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

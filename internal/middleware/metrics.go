package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestRecorder receives one observation per completed request.
type RequestRecorder interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Metrics returns middleware that reports each request to rec, labelled by
// the matched chi route pattern so ids do not explode label cardinality.
func Metrics(rec RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := newStatusRecorder(w)

			next.ServeHTTP(sr, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			rec.ObserveRequest(r.Method, route, sr.statusCode, time.Since(start))
		})
	}
}

package middleware

import (
	"net/http"

	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and response headers.
// An incoming X-Request-ID is reused so traces survive proxies.
func (a *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			if id, err := uuid.New(); err == nil {
				requestID = id.String()
			}
		}

		ctx := wrap.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

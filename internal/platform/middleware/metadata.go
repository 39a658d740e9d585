package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"guardpost/pkg/requestcontext"
)

// RequestID assigns a correlation id to every request and echoes it in the
// response so audit entries and logs can be tied back to a call.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestTime pins a single timestamp for the whole request so every write
// within one call carries the same clock reading.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientMetadata extracts the caller's IP and a normalized User-Agent
// description for security logging.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err == nil {
				ip = host
			} else {
				ip = r.RemoteAddr
			}
		}

		ua := useragent.New(r.UserAgent())
		browser, version := ua.Browser()
		described := browser + "/" + version + " (" + ua.OS() + ")"

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, described)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"net/http"
	"strings"
)

const (
	allowedMethods  = "GET, POST, PATCH, PUT, DELETE, OPTIONS"
	allowedHeaders  = "Authorization, Content-Type, Accept"
	preflightMaxAge = "86400"
)

// CORS allows the configured frontend origins to call the API with
// credentials. Preflight OPTIONS requests are answered with 204 without
// reaching the handler chain; requests from unknown origins pass through
// with no CORS headers, so the browser blocks them.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins[o] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		_, known := origins[origin]

		if r.Method == http.MethodOptions {
			if known {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", allowedMethods)
				h.Set("Access-Control-Allow-Headers", allowedHeaders)
				h.Set("Access-Control-Max-Age", preflightMaxAge)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if known {
			next.ServeHTTP(&originWriter{ResponseWriter: w, origin: origin}, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originWriter defers the allow-origin headers until the handler writes,
// so handlers that replace headers can't drop them.
type originWriter struct {
	http.ResponseWriter
	origin string
}

func (w *originWriter) WriteHeader(code int) {
	w.ResponseWriter.Header().Set("Access-Control-Allow-Origin", w.origin)
	w.ResponseWriter.Header().Set("Access-Control-Allow-Credentials", "true")
	w.ResponseWriter.WriteHeader(code)
}

package util

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	corsAllowHeaders  = "Authorization, Content-Type, Accept, " + RequestIDHeader
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	defaultCORSMaxAge = 10 * time.Minute
)

// CORSOptions restricts which browser origins may call the API.
// An empty AllowedOrigins list allows any origin; tokens travel in the
// Authorization header, so credentials are never allowed.
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

// WithCORS answers preflights and tags responses for allowed origins.
func WithCORS(opts CORSOptions, next http.Handler) http.Handler {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = defaultCORSMaxAge
	}
	origins := make([]string, 0, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		origin := r.Header.Get("Origin")
		allowed := origin != "" && (anyOrigin || slices.Contains(origins, origin))
		if !anyOrigin {
			h.Add("Vary", "Origin")
		}
		if allowed {
			if anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(maxAge/time.Second)))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

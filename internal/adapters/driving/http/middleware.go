package http

import (
	"net/http"
)

// CORSMiddleware allows the browser frontend to call the gateway from a
// different origin
type CORSMiddleware struct {
	allowed map[string]bool
}

// NewCORSMiddleware creates a CORSMiddleware for the given origins.
// A single "*" entry allows any origin.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &CORSMiddleware{allowed: allowed}
}

// Handler wraps next with CORS headers and preflight handling
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (m.allowed["*"] || m.allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

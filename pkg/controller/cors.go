package controller

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS returns a middleware allowing browser calls from the given
// origins ("*" for any). Only the methods the site API serves are allowed;
// preflight requests are answered without reaching next.
func WithCORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Cache-Control", "X-Request-Id"},
		MaxAge:         300,
	})
}

// WithNoCache marks every response as non-cacheable. Layout fragments are
// served through it so a deploy is visible on the next page load.
func WithNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		next.ServeHTTP(w, r)
	})
}

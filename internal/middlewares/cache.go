package middlewares

import (
	"fmt"
	"net/http"
	"time"
)

// Cache marks responses as cacheable for maxAge and allows serving stale while revalidating.
func Cache(maxAge time.Duration, handler http.Handler) http.Handler {
	value := fmt.Sprintf("stale-while-revalidate, max-age=%d", int(maxAge.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		handler.ServeHTTP(w, r)
	})
}

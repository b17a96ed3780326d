package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Recover converts a handler panic into a 500 response so a single bad
// request cannot take the process down.
func Recover(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Errorf("panic handling %s %s: %v", r.Method, r.URL.Path, rec)
					reject(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package handler

import (
	"net/http"
	"time"

	"farm-ledger-api/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLoggingMiddleware tags every request with a generated request id and
// logs method, path, and duration once the handler returns.
func RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)

		logger.Log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(start).String(),
		}).Info("Request completed")
	})
}

package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
)

// accessLog writes one structured log entry per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		logger.RecordTiming("http.request", duration)
		logger.Info("http request", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"query":      r.URL.RawQuery,
			"status":     status,
			"bytes":      ww.BytesWritten(),
			"duration":   duration.String(),
			"request_id": chimiddleware.GetReqID(r.Context()),
			"remote":     r.RemoteAddr,
		})
	})
}

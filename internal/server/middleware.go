package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pgperffarm/farmplot/internal/util"
)

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []util.Field{
			util.F("method", r.Method),
			util.F("path", r.URL.Path),
			util.F("status", status),
			util.F("bytes", ww.BytesWritten()),
			util.F("duration", time.Since(start).String()),
		}
		if status >= http.StatusInternalServerError {
			util.LogWarn("HTTP request", fields...)
			return
		}
		util.LogDebug("HTTP request", fields...)
	})
}

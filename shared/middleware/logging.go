package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/medina-starter/accounts/shared/api"
	"github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/logger"
	"github.com/medina-starter/accounts/shared/utils"
)

// RequestLogger writes one structured access log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		ip, _ := utils.GetIP(r)
		logger.Log.Info("http request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"ip", ip,
		)
	})
}

// Recoverer turns a panic into an internal error response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Log.Error("panic recovered",
					"request_id", chimw.GetReqID(r.Context()),
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				utils.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{Message: errors.InternalMessage})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

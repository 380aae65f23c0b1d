package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logging writes one structured line per finished request. Server errors are
// logged at error level, client errors at warn.
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("remote_addr", ctx.ClientIP()),
		}
		if id := GetRequestID(ctx); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, slog.String("error", ctx.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx.Request.Context(), level, "request", attrs...)
	}
}

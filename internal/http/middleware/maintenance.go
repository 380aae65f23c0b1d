package middleware

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Maintenance answers 503 while flagPath exists. Paths in exempt keep working
// so probes and scrapers can tell the process is alive.
func Maintenance(log *slog.Logger, flagPath string, exempt ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(ctx *gin.Context) {
		if _, ok := skip[ctx.Request.URL.Path]; ok {
			ctx.Next()
			return
		}
		if _, err := os.Stat(flagPath); err == nil {
			log.Debug("rejected during maintenance", slog.String("path", ctx.Request.URL.Path))
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is under maintenance, try again later"})
			return
		}
		ctx.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var corsMethods = strings.Join([]string{
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
}, ", ")

// CORS permits every origin, method and header. With credentials enabled the
// request origin is echoed back instead of "*", since browsers refuse
// credentialed responses carrying a wildcard origin.
func CORS(allowCredentials bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if origin == "" {
			ctx.Next()
			return
		}

		h := ctx.Writer.Header()
		if allowCredentials {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}

		if ctx.Request.Method != http.MethodOptions || ctx.GetHeader("Access-Control-Request-Method") == "" {
			ctx.Next()
			return
		}

		h.Set("Access-Control-Allow-Methods", corsMethods)
		if requested := ctx.GetHeader("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
			h.Add("Vary", "Access-Control-Request-Headers")
		}
		h.Set("Access-Control-Max-Age", "600")
		ctx.AbortWithStatus(http.StatusNoContent)
	}
}

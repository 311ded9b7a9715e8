package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncss/coffeerun/internal/metrics"
)

// Metrics labels each request with its route pattern, not the raw path.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

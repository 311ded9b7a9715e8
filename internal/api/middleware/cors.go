package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func ConfigCORS(domains []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowOrigins:     domains,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(domains) == 0 {
		conf.AllowOrigins = nil
		conf.AllowAllOrigins = true
		conf.AllowCredentials = false
	}

	return cors.New(conf)
}

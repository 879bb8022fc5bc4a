package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// OriginAllowed reports whether origin starts with one of the prefixes. A "*"
// prefix admits everything.
func OriginAllowed(originPrefixes []string, origin string) bool {
	for _, prefix := range originPrefixes {
		if prefix == "*" || strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// CORSMiddleware admits origins that start with one of the configured
// prefixes. Websocket upgrades bypass CORS; the feed handler checks their
// Origin itself.
func CORSMiddleware(originPrefixes []string) gin.HandlerFunc {
	config := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(originPrefixes, origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	corsHandler := cors.New(config)
	return func(c *gin.Context) {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}
		corsHandler(c)
	}
}

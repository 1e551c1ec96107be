package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins; an empty list allows any origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", HeaderRequestID},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = allowedOrigins
		conf.AllowCredentials = true
	}
	return cors.New(conf)
}

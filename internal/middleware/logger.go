package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the gin context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestID propagates the caller's X-Request-ID or assigns a fresh one,
// echoing it on the response so capture retries can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one line per request. Health probes are skipped to keep
// the log readable under frequent readiness polling.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		id := c.GetString(ContextKeyRequestID)
		log.Printf("http: [%s] %s %s %d %s",
			id, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery recovers from handler panics and responds 500.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}

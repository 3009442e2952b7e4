package config

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is the application-wide logger.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// slowRequestThreshold flags requests worth a closer look.
const slowRequestThreshold = 200 * time.Millisecond

// RequestLogger logs every request with a generated request id and timing.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("requestId", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		// Process request
		c.Next()

		latency := time.Since(start)
		event := Logger.Info()
		if latency > slowRequestThreshold {
			event = Logger.Warn().Bool("slow", true)
		}
		event.
			Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Msg("request")
	}
}

package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDKey = "request_id"

// Служебные пути опрашиваются постоянно, пишем их только на debug
var quietPaths = map[string]struct{}{
	"/health":          {},
	"/health/liveness": {},
	"/metrics":         {},
}

// GinLoggerMiddleware пишет одну JSON строку на запрос и проставляет X-Request-ID
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(RequestIDKey, requestID)

		c.Next()

		status := c.Writer.Status()

		event := levelEvent(path, status)
		event.
			Str(RequestIDKey, requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Str("remote_addr", c.ClientIP()).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Float64("duration_ms", float64(time.Since(start).Milliseconds()))

		// user_id проставляет AuthMiddleware
		if userID := c.GetString("user_id"); userID != "" {
			event.Str("user_id", userID)
		}

		if len(c.Errors) > 0 {
			event.Str("error", c.Errors.String())
		}

		event.Msg("HTTP request")
	}
}

func levelEvent(path string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return Error()
	case status >= 400:
		return Warn()
	}
	if _, ok := quietPaths[path]; ok {
		return Debug()
	}
	return Info()
}

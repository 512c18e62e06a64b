package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GinLoggerMiddleware логирует каждый HTTP-запрос одной JSON-записью.
// Ответы 4xx уходят на уровне warn, 5xx - error. Шум невалидных сессий
// (401 от auth middleware) отсеивается уровнем на стороне лог-приёмника,
// глобальные логгеры нигде не подменяются.
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()

		event := Info()
		switch {
		case status >= 500:
			event = Error()
		case status >= 400:
			event = Warn()
		}

		logEvent := event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Str("remote_addr", c.ClientIP()).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Float64("duration_ms", float64(time.Since(start).Microseconds())/1000)

		if len(c.Errors) > 0 {
			logEvent = logEvent.Str("error", c.Errors.String())
		}

		logEvent.Msg("HTTP request")
	}
}

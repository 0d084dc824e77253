package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caaatisgood/expo/ctxlog"
)

type Ctx = *gin.Context
type Handler = gin.HandlerFunc
type Router = gin.IRouter

const requestIDKey = "request_id"

// RequestID sets or propagates X-Request-ID.
func RequestID() Handler {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// RequestLogger stores a logger tagged with the request ID in the request
// context, so method calls made on behalf of the request log with it.
func RequestLogger(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		reqLogger := l.With("req_id", c.GetString(requestIDKey))
		c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), reqLogger))
		c.Next()
	}
}

// AccessLog writes a structured access log after the request completes.
func AccessLog(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("http_access",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"req_id", c.GetString(requestIDKey),
		)
	}
}

// RecoveryProblem converts panics to RFC 7807 problem responses.
func RecoveryProblem(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic", "error", rec, "req_id", c.GetString(requestIDKey))
				Problem(c, http.StatusInternalServerError, "unexpected server error")
			}
		}()
		c.Next()
	}
}

// Problem aborts the request with an application/problem+json body.
func Problem(c *gin.Context, status int, detail string) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(status, gin.H{
		"type":   "about:blank",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

package admin

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the request id, generated when the caller sends none.
	HeaderRequestID = "X-Request-ID"
	// HeaderAdminID carries the Telegram id of the calling administrator.
	HeaderAdminID = "X-Admin-ID"

	loggerKey  = "logger"
	adminIDKey = "admin_id"
)

// RequestID propagates or generates the request id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(HeaderRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// Logger attaches a request scoped logger and logs every finished request.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With("request_id", c.GetString(HeaderRequestID))
		c.Set(loggerKey, reqLog)

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			reqLog.ErrorContext(c.Request.Context(), "Request failed", append(attrs, "error", c.Errors.String())...)
			return
		}
		reqLog.InfoContext(c.Request.Context(), "Request handled", attrs...)
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				requestLogger(c, log).ErrorContext(c.Request.Context(), "Panic recovered",
					"panic", fmt.Sprint(recovered), "stack", string(debug.Stack()))
				fail(c, http.StatusInternalServerError, codeInternal, "internal server error")
			}
		}()

		c.Next()
	}
}

// Metrics counts requests by route template and status.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.AdminRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RequireAdmin admits only callers whose X-Admin-ID is a stored administrator.
func RequireAdmin(directory Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAdminID))
		if raw == "" {
			fail(c, http.StatusUnauthorized, codeUnauthorized, "missing "+HeaderAdminID+" header")
			return
		}
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fail(c, http.StatusUnauthorized, codeUnauthorized, "malformed "+HeaderAdminID+" header")
			return
		}

		isAdmin, err := directory.IsAdmin(c.Request.Context(), adminID)
		if err != nil {
			handleError(c, err)
			return
		}
		if !isAdmin {
			requestLogger(c, nil).InfoContext(c.Request.Context(), "Access denied", "telegram_id", adminID)
			fail(c, http.StatusForbidden, codeForbidden, "administrator rights required")
			return
		}

		c.Set(adminIDKey, adminID)
		c.Next()
	}
}

// auditLogger is the request logger tagged with the administrator admitted by RequireAdmin.
func auditLogger(c *gin.Context) *slog.Logger {
	log := requestLogger(c, nil)
	if adminID, ok := c.Get(adminIDKey); ok {
		return log.With("admin_id", adminID)
	}
	return log
}

// requestLogger returns the logger attached by Logger, or fallback.
func requestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if log, ok := value.(*slog.Logger); ok {
			return log
		}
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

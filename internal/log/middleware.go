package log

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"

	// RequestIDHeader carries the request id in and out of the API.
	RequestIDHeader = "X-Request-ID"
)

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// WithLogger stores logger in ctx for FromContext.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// Middleware assigns every request an id (reusing a client supplied
// X-Request-ID), stores a request scoped logger in the request context and
// logs the request once it completes.
func Middleware(logger *Logger) gin.HandlerFunc {
	httpLogger := logger.WithComponent(ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := httpLogger.With(FieldRequestID, requestID)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := NewFields().
			WithComponent(ComponentHTTP).
			WithRequestID(requestID).
			WithHTTPRequest(c.Request.Method, c.FullPath(), c.Request.URL.RawQuery, c.Request.UserAgent()).
			WithHTTPResponse(status, time.Since(start).Milliseconds()).
			WithClientIP(c.ClientIP())
		if len(c.Errors) > 0 {
			fields[FieldError] = c.Errors.String()
		}

		httpLogger.Logger.Log(c.Request.Context(), LevelForStatus(status), "HTTP request completed", fields.ToSlice()...)
	}
}

// StructuredLogger provides domain level log helpers on top of Logger
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogRecordSaved logs a successfully stored record
func (sl *StructuredLogger) LogRecordSaved(ctx context.Context, recordID, ledgerID int64, direction, category, amount string) {
	fields := NewFields().
		WithRecord(recordID, ledgerID, direction, category, amount).
		WithOperation(OpCreate)

	sl.logger.InfoContext(ctx, "Record saved", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	all := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, all.ToSlice()...)
}

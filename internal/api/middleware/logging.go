package middleware

import (
    "errors"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/bubblecrawl/ingest-gateway/pkg/logger"
    "github.com/bubblecrawl/ingest-gateway/pkg/response"
)

const RequestIDKey = "request_id"

// RequestID 给每个请求分配一个 id，响应头回带
func RequestID() gin.HandlerFunc {
    return func(c *gin.Context) {
        rid := c.GetHeader("X-Request-ID")
        if rid == "" {
            rid = uuid.NewString()
        }
        c.Set(RequestIDKey, rid)
        c.Header("X-Request-ID", rid)
        c.Next()
    }
}

// AccessLog 访问日志
func AccessLog() gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        c.Next()
        logger.Info("request",
            zap.String("method", c.Request.Method),
            zap.String("path", c.Request.URL.Path),
            zap.Int("status", c.Writer.Status()),
            zap.Duration("latency", time.Since(start)),
            zap.String("request_id", c.GetString(RequestIDKey)),
            zap.String("caller", c.GetString(CallerKey)),
        )
    }
}

// Recovery panic 恢复并上报 Sentry
func Recovery() gin.HandlerFunc {
    return func(c *gin.Context) {
        defer func() {
            if r := recover(); r != nil {
                hub := sentry.CurrentHub().Clone()
                hub.Recover(r)
                logger.Error("panic recovered",
                    zap.Any("panic", r),
                    zap.String("path", c.Request.URL.Path),
                    zap.String("request_id", c.GetString(RequestIDKey)),
                )
                response.InternalError(c, errInternal)
                c.Abort()
            }
        }()
        c.Next()
    }
}

var errInternal = errors.New("internal error")

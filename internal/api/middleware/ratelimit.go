package middleware

import (
    "github.com/gin-gonic/gin"
    "golang.org/x/time/rate"

    "github.com/bubblecrawl/ingest-gateway/pkg/response"
)

// RateLimit 全局令牌桶限流，只约束未受信调用方。
// 这是准入信号量之前的粗粒度闸门，两者目的一致：
// 未受信写入方打不垮存储，且被拒绝时能拿到明确反馈
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
    if perSecond <= 0 {
        return func(c *gin.Context) { c.Next() }
    }
    if burst <= 0 {
        burst = int(perSecond)
    }
    limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
    return func(c *gin.Context) {
        if c.GetString(CallerKey) == CallerTrusted {
            c.Next()
            return
        }
        if !limiter.Allow() {
            response.TooManyRequests(c, "rate limit exceeded, retry later")
            c.Abort()
            return
        }
        c.Next()
    }
}

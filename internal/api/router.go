package api

import (
    "net/http"

    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

    _ "github.com/bubblecrawl/ingest-gateway/docs"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/internal/api/handler"
    "github.com/bubblecrawl/ingest-gateway/internal/api/middleware"
)

// NewRouter 组装路由。记录只有 POST 入口：
// 读/改/删在这里不存在，在数据库授权层也不存在
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
    gin.SetMode(cfg.Server.Mode)
    r := gin.New()

    r.Use(middleware.Recovery())
    r.Use(middleware.RequestID())
    r.Use(middleware.AccessLog())
    r.Use(otelgin.Middleware(cfg.Trace.Service))
    r.Use(gzip.Gzip(gzip.DefaultCompression))

    r.GET("/healthz", h.Healthz)
    r.GET("/readyz", h.Readyz)
    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    v1 := r.Group("/api/v1")
    v1.Use(bodyLimit(cfg.Server.MaxBodyBytes))
    v1.Use(middleware.Auth(cfg.Auth))
    v1.Use(middleware.RateLimit(cfg.Ingest.RatePerSecond, cfg.Ingest.RateBurst))
    {
        v1.POST("/records", h.SubmitRecord)
    }
    return r
}

// bodyLimit 请求体上限。content/url 没有字段级长度上限，
// 但单次请求不能无界
func bodyLimit(max int64) gin.HandlerFunc {
    if max <= 0 {
        max = 10 * 1024 * 1024
    }
    return func(c *gin.Context) {
        c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
        c.Next()
    }
}

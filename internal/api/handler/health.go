package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"

    "github.com/bubblecrawl/ingest-gateway/pkg/response"
)

// Healthz 存活探针
// @Summary 存活检查
// @Tags 运维
// @Success 200 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
    response.Success(c, gin.H{"status": "ok"})
}

// Readyz 就绪探针：数据库必须可达，缓存不可达只降级不拒绝
// @Summary 就绪检查
// @Tags 运维
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /readyz [get]
func (h *Handler) Readyz(c *gin.Context) {
    ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
    defer cancel()

    sqlDB, err := h.db.DB()
    if err == nil {
        err = sqlDB.PingContext(ctx)
    }
    if err != nil {
        c.JSON(http.StatusServiceUnavailable, response.Response{
            Code: http.StatusServiceUnavailable, Message: "database unreachable: " + err.Error(),
        })
        return
    }

    cacheStatus := "disabled"
    if h.cache != nil {
        cacheStatus = "ok"
        if err := h.cache.Ping(ctx).Err(); err != nil {
            // 去重缓存故障走 fail-open，主键约束兜底，不影响就绪
            cacheStatus = "degraded"
        }
    }
    response.Success(c, gin.H{"database": "ok", "cache": cacheStatus})
}

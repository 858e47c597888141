package handler

import (
    "github.com/redis/go-redis/v9"
    "gorm.io/gorm"

    "github.com/bubblecrawl/ingest-gateway/internal/service"
)

// Handler 汇聚各路由依赖
type Handler struct {
    ingestSvc service.IngestService
    db        *gorm.DB
    cache     *redis.Client // 可为 nil（缓存关闭时）
}

func New(ingestSvc service.IngestService, db *gorm.DB, cache *redis.Client) *Handler {
    return &Handler{ingestSvc: ingestSvc, db: db, cache: cache}
}

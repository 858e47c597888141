package database

import (
    "context"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
    "gorm.io/driver/postgres"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/internal/model"
)

// InitDB 建立 PostgreSQL 连接池。
// 连接使用只有 INSERT 权限的角色（见 deploy/a_dis.sql），
// 读/改/删在数据库授权层就被拒绝，应用层校验只是第二道防线。
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
        Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
        TranslateError: true, // 主键冲突统一转成 gorm.ErrDuplicatedKey
    })
    if err != nil {
        return nil, fmt.Errorf("open postgres: %w", err)
    }

    sqlDB, err := db.DB()
    if err != nil {
        return nil, err
    }
    sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
    sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
    sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

    // 本地开发建表；生产库表和授权由 deploy/a_dis.sql 管理，
    // writer 角色没有 DDL 权限，这里必须保持关闭
    if cfg.Database.AutoMigrate {
        if err := db.AutoMigrate(&model.Record{}); err != nil {
            return nil, fmt.Errorf("migrate: %w", err)
        }
    }
    return db, nil
}

// InitRedis 创建 Redis 客户端并 ping 一次确认可达
func InitRedis(cfg *config.Config) (*redis.Client, error) {
    client := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil, fmt.Errorf("ping redis: %w", err)
    }
    return client, nil
}

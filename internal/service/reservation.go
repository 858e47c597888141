package service

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/bubblecrawl/ingest-gateway/pkg/logger"
)

// ErrDuplicateID 该 id 已被预约或已落库
var ErrDuplicateID = errors.New("duplicate id")

const (
    reserveMarkPending = "pending"
    reserveMarkStored  = "stored"
)

// Deduplicator 身份去重器：同一 id 至多发出一个有效预约。
// Redis 只是快速失败的前置缓存，最终一致性由 a_dis 主键约束兜底，
// 所以 Redis 故障时放行（fail-open）而不是拒绝
type Deduplicator interface {
    Reserve(ctx context.Context, id string) (*Reservation, error)
}

// Reservation 对单个 id 的独占预约，必须 Commit 或 Rollback 恰好一次。
// 两个方法都幂等，网关在 defer 里统一释放，任何退出路径（含取消）都不会泄漏
type Reservation struct {
    id       string
    dedup    *redisDeduplicator
    once     sync.Once
    degraded bool // Redis 不可用时授予的降级预约，释放时无事可做
}

// Commit 标记 id 已落库；标记带较长 TTL，让重复提交不打到数据库就能失败
func (r *Reservation) Commit(ctx context.Context) {
    r.once.Do(func() {
        if r.degraded || r.dedup == nil {
            return
        }
        if err := r.dedup.client.Set(ctx, r.dedup.key(r.id), reserveMarkStored, r.dedup.storedTTL).Err(); err != nil {
            // 标记失败无碍正确性，下次重复提交由主键约束拦下
            logger.Warn("reservation commit mark failed", zap.String("id", r.id), zap.Error(err))
        }
    })
}

// Rollback 释放预约，id 立即可被重新提交
func (r *Reservation) Rollback(ctx context.Context) {
    r.once.Do(func() {
        if r.degraded || r.dedup == nil {
            return
        }
        if err := r.dedup.client.Del(ctx, r.dedup.key(r.id)).Err(); err != nil {
            logger.Warn("reservation rollback failed, claim expires by ttl",
                zap.String("id", r.id), zap.Error(err))
        }
    })
}

type redisDeduplicator struct {
    client     *redis.Client
    reserveTTL time.Duration
    storedTTL  time.Duration
}

// NewRedisDeduplicator 创建 Redis 去重器。
// reserveTTL 限定单次预约的存活时间，持有方崩溃后 id 自动解锁
func NewRedisDeduplicator(client *redis.Client, reserveTTL, storedTTL time.Duration) Deduplicator {
    if reserveTTL <= 0 {
        reserveTTL = 30 * time.Second
    }
    if storedTTL <= 0 {
        storedTTL = 24 * time.Hour
    }
    return &redisDeduplicator{client: client, reserveTTL: reserveTTL, storedTTL: storedTTL}
}

func (d *redisDeduplicator) key(id string) string { return "ingest:reserve:" + id }

// Reserve 以 SET NX 原子抢占 id。并发提交同一 id 时只有一个成功
func (d *redisDeduplicator) Reserve(ctx context.Context, id string) (*Reservation, error) {
    ok, err := d.client.SetNX(ctx, d.key(id), reserveMarkPending, d.reserveTTL).Result()
    if err != nil {
        logger.Warn("dedup cache unavailable, fall through to pk constraint",
            zap.String("id", id), zap.Error(err))
        return &Reservation{id: id, degraded: true}, nil
    }
    if !ok {
        return nil, ErrDuplicateID
    }
    return &Reservation{id: id, dedup: d}, nil
}

// nopDeduplicator 关闭缓存时使用，只靠数据库主键约束去重
type nopDeduplicator struct{}

func NewNopDeduplicator() Deduplicator { return nopDeduplicator{} }

func (nopDeduplicator) Reserve(ctx context.Context, id string) (*Reservation, error) {
    return &Reservation{id: id, degraded: true}, nil
}

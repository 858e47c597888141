package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "go.uber.org/zap"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/internal/model"
    "github.com/bubblecrawl/ingest-gateway/internal/repository"
    "github.com/bubblecrawl/ingest-gateway/pkg/logger"
)

var (
    // ErrOverloaded 在途请求已达准入上限，立即拒绝，调用方退避后重试
    ErrOverloaded = errors.New("ingest overloaded")
    // ErrUnavailable 瞬时错误重试耗尽
    ErrUnavailable = errors.New("store unavailable")
)

// RejectedError 存储层永久拒绝（畸形数据、约束失败），重试无意义
type RejectedError struct {
    ID  string
    Err error
}

func (e *RejectedError) Error() string {
    return fmt.Sprintf("record %s rejected by store: %v", e.ID, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// IngestService 摄入网关：校验 → 预约 → 落库
type IngestService interface {
    Ingest(ctx context.Context, sub *model.Submission) (string, error)
}

type ingestService struct {
    validator *Validator
    dedup     Deduplicator
    repo      repository.RecordRepository

    // 准入信号量：塞满即拒，绝不无限排队
    sem chan struct{}

    maxRetries    int
    retryBackoff  time.Duration
    appendTimeout time.Duration
}

func NewIngestService(va *Validator, dedup Deduplicator, repo repository.RecordRepository, cfg config.IngestConfig) IngestService {
    if cfg.MaxInFlight <= 0 {
        cfg.MaxInFlight = 100
    }
    if cfg.MaxRetries < 0 {
        cfg.MaxRetries = 0
    }
    if cfg.RetryBackoff <= 0 {
        cfg.RetryBackoff = 100 * time.Millisecond
    }
    if cfg.AppendTimeout <= 0 {
        cfg.AppendTimeout = 3 * time.Second
    }
    return &ingestService{
        validator:     va,
        dedup:         dedup,
        repo:          repo,
        sem:           make(chan struct{}, cfg.MaxInFlight),
        maxRetries:    cfg.MaxRetries,
        retryBackoff:  cfg.RetryBackoff,
        appendTimeout: cfg.AppendTimeout,
    }
}

// InFlight 当前在途请求数（采样值，测试和监控用）
func (s *ingestService) InFlight() int { return len(s.sem) }

// Ingest 处理一次提交。不同 id 之间完全并行，
// 唯一的串行点是单个 id 上的预约
func (s *ingestService) Ingest(ctx context.Context, sub *model.Submission) (string, error) {
    select {
    case s.sem <- struct{}{}:
    default:
        return "", ErrOverloaded
    }
    defer func() { <-s.sem }()

    rec, err := s.validator.Validate(sub)
    if err != nil {
        return "", err
    }

    res, err := s.dedup.Reserve(ctx, rec.ID)
    if err != nil {
        if errors.Is(err, ErrDuplicateID) {
            return "", fmt.Errorf("id %s: %w", rec.ID, ErrDuplicateID)
        }
        return "", err
    }

    // 预约必须在所有退出路径上解决（含调用方取消），
    // 释放用独立超时，不受请求 ctx 影响
    committed := false
    defer func() {
        relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()
        if committed {
            res.Commit(relCtx)
        } else {
            res.Rollback(relCtx)
        }
    }()

    var lastErr error
    for attempt := 0; attempt <= s.maxRetries; attempt++ {
        if attempt > 0 {
            backoff := s.retryBackoff << (attempt - 1)
            select {
            case <-ctx.Done():
                return "", ctx.Err()
            case <-time.After(backoff):
            }
        }

        attemptCtx, cancel := context.WithTimeout(ctx, s.appendTimeout)
        err = s.repo.Insert(attemptCtx, rec)
        cancel()

        if err == nil {
            committed = true
            return rec.ID, nil
        }
        // 调用方已取消：不分类不重试，预约由 defer 回滚
        if ctx.Err() != nil {
            return "", ctx.Err()
        }
        if errors.Is(err, repository.ErrDuplicateKey) {
            // 缓存放过的重复由主键约束兜底；记录确实已存在，标记提交
            committed = true
            return "", fmt.Errorf("id %s: %w", rec.ID, ErrDuplicateID)
        }
        if !repository.IsTransient(err) {
            return "", &RejectedError{ID: rec.ID, Err: err}
        }
        lastErr = err
        logger.Warn("append attempt failed",
            zap.String("id", rec.ID), zap.Int("attempt", attempt+1), zap.Error(err))
    }
    return "", fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, s.maxRetries+1, lastErr)
}

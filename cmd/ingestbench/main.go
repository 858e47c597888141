package main

import (
    "context"
    "errors"
    "fmt"
    "math"
    "os"
    "sort"
    "strconv"
    "sync"
    "sync/atomic"
    "time"

    "github.com/google/uuid"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/internal/model"
    "github.com/bubblecrawl/ingest-gateway/internal/repository"
    "github.com/bubblecrawl/ingest-gateway/internal/service"
    "github.com/bubblecrawl/ingest-gateway/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

// 并发摄入压测：N 条唯一 id 的提交打满 CONC 个 worker，
// 统计成功/重复/过载和延迟分位数
func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))

    var dedup service.Deduplicator
    if cfg.Redis.Enabled {
        cache := must(database.InitRedis(cfg))
        dedup = service.NewRedisDeduplicator(cache, cfg.Ingest.ReserveTTL, cfg.Ingest.StoredTTL)
    } else {
        dedup = service.NewNopDeduplicator()
    }
    repo := repository.NewRecordRepository(db)
    svc := service.NewIngestService(service.NewValidator(), dedup, repo, cfg.Ingest)

    ctx := context.Background()

    N := 10000
    if s := os.Getenv("N"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
    }
    CONC := 32
    if s := os.Getenv("CONC"); s != "" {
        if c, err := strconv.Atoi(s); err == nil && c > 0 { CONC = c }
    }

    run := uuid.New().String()[:8]
    var ok, dup, overloaded, failed atomic.Int64
    recs := make([]time.Duration, 0, N)
    var mu sync.Mutex

    feed := make(chan int, N)
    for i := 0; i < N; i++ { feed <- i }
    close(feed)

    // 采样在途峰值
    maxQ := 0
    quitSample := make(chan struct{})
    if m, ok := svc.(interface{ InFlight() int }); ok {
        go func() {
            ticker := time.NewTicker(10 * time.Millisecond)
            defer ticker.Stop()
            for {
                select {
                case <-ticker.C:
                    if q := m.InFlight(); q > maxQ { maxQ = q }
                case <-quitSample:
                    return
                }
            }
        }()
    }

    t0 := time.Now()
    var wg sync.WaitGroup
    for w := 0; w < CONC; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for i := range feed {
                sub := &model.Submission{
                    ID:         fmt.Sprintf("bench-%s-%06d", run, i),
                    TypeName:   "bench",
                    UserName:   "bench",
                    CreateTime: time.Now().UTC().Format(time.RFC3339),
                    Content:    "bench payload",
                    URL:        "http://bench.local",
                }
                st := time.Now()
                _, err := svc.Ingest(ctx, sub)
                d := time.Since(st)
                switch {
                case err == nil:
                    ok.Add(1)
                case errors.Is(err, service.ErrDuplicateID):
                    dup.Add(1)
                case errors.Is(err, service.ErrOverloaded):
                    overloaded.Add(1)
                default:
                    failed.Add(1)
                }
                mu.Lock()
                recs = append(recs, d)
                mu.Unlock()
            }
        }()
    }
    wg.Wait()
    total := time.Since(t0)
    close(quitSample)

    pct := func(vs []time.Duration, p float64) time.Duration {
        if len(vs) == 0 { return 0 }
        xs := append([]time.Duration(nil), vs...)
        sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
        k := int(math.Ceil(p*float64(len(xs)))) - 1
        if k < 0 { k = 0 }
        if k >= len(xs) { k = len(xs)-1 }
        return xs[k]
    }

    fmt.Printf("N=%d, CONC=%d, max_in_flight=%d\n", N, CONC, cfg.Ingest.MaxInFlight)
    fmt.Printf("total: %v, throughput: %.0f/s\n", total, float64(N)/total.Seconds())
    fmt.Printf("ok=%d dup=%d overloaded=%d failed=%d, peak in-flight=%d\n",
        ok.Load(), dup.Load(), overloaded.Load(), failed.Load(), maxQ)
    fmt.Printf("latency p50=%v p95=%v p99=%v\n", pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
}

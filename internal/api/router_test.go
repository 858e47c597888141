package api

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/internal/api/handler"
    "github.com/bubblecrawl/ingest-gateway/internal/model"
)

type okIngest struct{}

func (okIngest) Ingest(ctx context.Context, sub *model.Submission) (string, error) {
    return sub.ID, nil
}

func newRouter(t *testing.T) http.Handler {
    t.Helper()
    hash, err := bcrypt.GenerateFromPassword([]byte("writer-key"), bcrypt.MinCost)
    require.NoError(t, err)
    cfg := &config.Config{
        Server: config.ServerConfig{Mode: "test", MaxBodyBytes: 1 << 20},
        Auth:   config.AuthConfig{WriterKeyHash: string(hash)},
        Trace:  config.TraceConfig{Service: "test"},
    }
    return NewRouter(cfg, handler.New(okIngest{}, nil, nil))
}

func TestRouterRequiresAuth(t *testing.T) {
    r := newRouter(t)
    req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(`{"id":"x1"}`))
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterSubmit(t *testing.T) {
    r := newRouter(t)
    req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(`{"id":"x1"}`))
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("X-Bubble-Key", "writer-key")
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterNoReadPath(t *testing.T) {
    // insert-only：网关上不存在任何记录读取/修改/删除路由
    r := newRouter(t)
    for _, tc := range []struct{ method, path string }{
        {http.MethodGet, "/api/v1/records"},
        {http.MethodGet, "/api/v1/records/x1"},
        {http.MethodPut, "/api/v1/records/x1"},
        {http.MethodPatch, "/api/v1/records/x1"},
        {http.MethodDelete, "/api/v1/records/x1"},
    } {
        req := httptest.NewRequest(tc.method, tc.path, nil)
        req.Header.Set("X-Bubble-Key", "writer-key")
        w := httptest.NewRecorder()
        r.ServeHTTP(w, req)
        require.Equal(t, http.StatusNotFound, w.Code, "%s %s must not exist", tc.method, tc.path)
    }
}

func TestRouterBodyLimit(t *testing.T) {
    hash, err := bcrypt.GenerateFromPassword([]byte("writer-key"), bcrypt.MinCost)
    require.NoError(t, err)
    cfg := &config.Config{
        Server: config.ServerConfig{Mode: "test", MaxBodyBytes: 64},
        Auth:   config.AuthConfig{WriterKeyHash: string(hash)},
        Trace:  config.TraceConfig{Service: "test"},
    }
    r := NewRouter(cfg, handler.New(okIngest{}, nil, nil))

    body := `{"id":"x1","content":"` + strings.Repeat("a", 1024) + `"}`
    req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(body))
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("X-Bubble-Key", "writer-key")
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    require.Equal(t, http.StatusBadRequest, w.Code)
}

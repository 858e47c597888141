package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/require"

    "github.com/bubblecrawl/ingest-gateway/internal/model"
    "github.com/bubblecrawl/ingest-gateway/internal/service"
)

type stubIngest struct {
    id  string
    err error
    got *model.Submission
}

func (s *stubIngest) Ingest(ctx context.Context, sub *model.Submission) (string, error) {
    s.got = sub
    return s.id, s.err
}

func newTestRouter(svc service.IngestService) *gin.Engine {
    gin.SetMode(gin.TestMode)
    r := gin.New()
    h := New(svc, nil, nil)
    r.POST("/api/v1/records", h.SubmitRecord)
    return r
}

func doPost(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
    t.Helper()
    var buf bytes.Buffer
    switch b := body.(type) {
    case string:
        buf.WriteString(b)
    default:
        require.NoError(t, json.NewEncoder(&buf).Encode(b))
    }
    req := httptest.NewRequest(http.MethodPost, "/api/v1/records", &buf)
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    return w
}

func TestSubmitRecordOK(t *testing.T) {
    svc := &stubIngest{id: "x1"}
    r := newTestRouter(svc)

    w := doPost(t, r, model.Submission{
        ID: "x1", TypeName: "news", UserName: "bob",
        CreateTime: "2024-01-01", Content: "hello", URL: "http://e.com",
    })
    require.Equal(t, http.StatusOK, w.Code)
    require.Contains(t, w.Body.String(), `"x1"`)

    require.NotNil(t, svc.got)
    require.Equal(t, "x1", svc.got.ID)
    require.Equal(t, "news", svc.got.TypeName)
}

func TestSubmitRecordBadJSON(t *testing.T) {
    r := newTestRouter(&stubIngest{})
    w := doPost(t, r, `{"id": `)
    require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRecordErrorMapping(t *testing.T) {
    cases := []struct {
        name string
        err  error
        want int
    }{
        {"validation", &service.ValidationError{Field: "id", Reason: "must not be empty"}, http.StatusBadRequest},
        {"duplicate", errors.Join(errors.New("id x1"), service.ErrDuplicateID), http.StatusConflict},
        {"overloaded", service.ErrOverloaded, http.StatusTooManyRequests},
        {"unavailable", service.ErrUnavailable, http.StatusServiceUnavailable},
        {"rejected", &service.RejectedError{ID: "x1", Err: errors.New("value too long")}, http.StatusUnprocessableEntity},
        {"canceled", context.Canceled, http.StatusRequestTimeout},
        {"unknown", errors.New("boom"), http.StatusInternalServerError},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            r := newTestRouter(&stubIngest{err: tc.err})
            w := doPost(t, r, model.Submission{ID: "x1"})
            require.Equal(t, tc.want, w.Code)
        })
    }
}

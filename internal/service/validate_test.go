package service

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/require"

    "github.com/bubblecrawl/ingest-gateway/internal/model"
)

func TestValidateOK(t *testing.T) {
    va := NewValidator()
    sub := &model.Submission{
        ID:         "x1",
        TypeName:   "news",
        UserName:   "bob",
        CreateTime: "2024-01-01",
        Content:    "hello",
        URL:        "http://e.com",
    }
    rec, err := va.Validate(sub)
    require.NoError(t, err)
    require.Equal(t, "x1", rec.ID)
    require.Equal(t, "news", rec.TypeName)
    require.Equal(t, "bob", rec.UserName)
    require.Equal(t, "2024-01-01", rec.CreateTime)
    require.Equal(t, "hello", rec.Content)
    require.Equal(t, "http://e.com", rec.URL)
}

func TestValidateIDBoundary(t *testing.T) {
    va := NewValidator()

    // 50 字节恰好通过
    sub := &model.Submission{ID: strings.Repeat("a", 50)}
    _, err := va.Validate(sub)
    require.NoError(t, err)

    // 51 字节拒绝
    sub = &model.Submission{ID: strings.Repeat("a", 51)}
    _, err = va.Validate(sub)
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    require.Equal(t, "id", verr.Field)

    // 空 id 拒绝
    sub = &model.Submission{ID: ""}
    _, err = va.Validate(sub)
    require.ErrorAs(t, err, &verr)
    require.Equal(t, "id", verr.Field)
}

func TestValidateByteLength(t *testing.T) {
    va := NewValidator()

    // 限制按字节算：100 个三字节汉字 = 300 字节 > 255
    sub := &model.Submission{ID: "x1", TypeName: strings.Repeat("中", 100)}
    _, err := va.Validate(sub)
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    require.Equal(t, "typename", verr.Field)

    // 85 个汉字 = 255 字节恰好通过
    sub = &model.Submission{ID: "x1", TypeName: strings.Repeat("中", 85)}
    _, err = va.Validate(sub)
    require.NoError(t, err)
}

func TestValidateLabelFields(t *testing.T) {
    va := NewValidator()
    long := strings.Repeat("a", 256)

    for _, tc := range []struct {
        field string
        sub   *model.Submission
    }{
        {"typename", &model.Submission{ID: "x1", TypeName: long}},
        {"username", &model.Submission{ID: "x1", UserName: long}},
        {"createtime", &model.Submission{ID: "x1", CreateTime: long}},
    } {
        _, err := va.Validate(tc.sub)
        var verr *ValidationError
        require.ErrorAs(t, err, &verr, tc.field)
        require.Equal(t, tc.field, verr.Field)
    }

    // 空值允许，255 字节允许
    ok := strings.Repeat("a", 255)
    _, err := va.Validate(&model.Submission{ID: "x1", TypeName: ok, UserName: ok, CreateTime: ok})
    require.NoError(t, err)
}

func TestValidateNullBytes(t *testing.T) {
    va := NewValidator()

    // content/url 没有长度上限，但不允许 NUL
    _, err := va.Validate(&model.Submission{ID: "x1", Content: strings.Repeat("x", 1<<20)})
    require.NoError(t, err)

    _, err = va.Validate(&model.Submission{ID: "x1", Content: "bad\x00text"})
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    require.Equal(t, "content", verr.Field)

    _, err = va.Validate(&model.Submission{ID: "x1", URL: "http://e.com/\x00"})
    require.ErrorAs(t, err, &verr)
    require.Equal(t, "url", verr.Field)
}

func TestValidateShortCircuit(t *testing.T) {
    va := NewValidator()
    // 多字段同时非法时只报第一个
    sub := &model.Submission{ID: "", TypeName: strings.Repeat("a", 300)}
    _, err := va.Validate(sub)
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    require.Equal(t, "id", verr.Field)
}

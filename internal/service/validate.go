package service

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-playground/validator/v10"

    "github.com/bubblecrawl/ingest-gateway/internal/model"
)

const (
    maxIDBytes    = 50
    maxLabelBytes = 255
)

// ValidationError 字段校验失败，调用方需修正输入后重发
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Validator 提交校验器，无副作用
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New()
    // 数据库限制的是字节宽度，max tag 按 rune 计数，这里用自定义规则
    _ = v.RegisterValidation("maxbytes50", func(fl validator.FieldLevel) bool {
        return len(fl.Field().String()) <= maxIDBytes
    })
    _ = v.RegisterValidation("maxbytes255", func(fl validator.FieldLevel) bool {
        return len(fl.Field().String()) <= maxLabelBytes
    })
    _ = v.RegisterValidation("notext0", func(fl validator.FieldLevel) bool {
        return !strings.ContainsRune(fl.Field().String(), 0)
    })
    return &Validator{v: v}
}

// 校验顺序与失败字段名固定，handler 按此给调用方报错
type submissionRules struct {
    ID         string `validate:"required,maxbytes50,notext0"`
    TypeName   string `validate:"maxbytes255,notext0"`
    UserName   string `validate:"maxbytes255,notext0"`
    CreateTime string `validate:"maxbytes255,notext0"`
    Content    string `validate:"notext0"`
    URL        string `validate:"notext0"`
}

var ruleReasons = map[string]string{
    "required":    "must not be empty",
    "maxbytes50":  fmt.Sprintf("must be at most %d bytes", maxIDBytes),
    "maxbytes255": fmt.Sprintf("must be at most %d bytes", maxLabelBytes),
    "notext0":     "must not contain null bytes",
}

var fieldNames = map[string]string{
    "ID":         "id",
    "TypeName":   "typename",
    "UserName":   "username",
    "CreateTime": "createtime",
    "Content":    "content",
    "URL":        "url",
}

// Validate 校验提交并生成完整 Record；遇到第一个失败字段即返回，绝不半接受
func (va *Validator) Validate(sub *model.Submission) (*model.Record, error) {
    rules := submissionRules{
        ID:         sub.ID,
        TypeName:   sub.TypeName,
        UserName:   sub.UserName,
        CreateTime: sub.CreateTime,
        Content:    sub.Content,
        URL:        sub.URL,
    }
    if err := va.v.Struct(&rules); err != nil {
        var verrs validator.ValidationErrors
        if errors.As(err, &verrs) && len(verrs) > 0 {
            fe := verrs[0]
            reason := ruleReasons[fe.Tag()]
            if reason == "" {
                reason = fe.Tag()
            }
            return nil, &ValidationError{Field: fieldNames[fe.StructField()], Reason: reason}
        }
        return nil, &ValidationError{Field: "submission", Reason: err.Error()}
    }
    return &model.Record{
        ID:         sub.ID,
        TypeName:   sub.TypeName,
        UserName:   sub.UserName,
        CreateTime: sub.CreateTime,
        Content:    sub.Content,
        URL:        sub.URL,
    }, nil
}

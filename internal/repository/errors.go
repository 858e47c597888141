package repository

import (
    "context"
    "errors"
    "net"
    "strings"

    "gorm.io/gorm"
)

// ErrDuplicateKey 主键已存在（永久错误，重试无意义）
var ErrDuplicateKey = errors.New("record id already exists")

// IsDuplicate 判断是否唯一键冲突。
// gorm 的 TranslateError 已覆盖 postgres / sqlite，字符串匹配兜底
func IsDuplicate(err error) bool {
    if err == nil {
        return false
    }
    if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
        return true
    }
    msg := err.Error()
    return strings.Contains(msg, "23505") ||
        strings.Contains(msg, "duplicate key") ||
        strings.Contains(msg, "UNIQUE constraint failed")
}

// IsTransient 判断是否瞬时错误（超时、连接异常），这类错误由网关退避重试
func IsTransient(err error) bool {
    if err == nil {
        return false
    }
    if IsDuplicate(err) {
        return false
    }
    if errors.Is(err, context.DeadlineExceeded) {
        return true
    }
    var netErr net.Error
    if errors.As(err, &netErr) {
        return true
    }
    msg := err.Error()
    for _, s := range []string{"connection refused", "connection reset", "broken pipe", "timeout", "bad connection"} {
        if strings.Contains(msg, s) {
            return true
        }
    }
    return false
}

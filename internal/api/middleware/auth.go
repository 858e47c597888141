package middleware

import (
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "golang.org/x/crypto/bcrypt"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/pkg/response"
)

// 调用方类别：二元区分，untrusted 只能写入且受限流
const (
    CallerKey       = "caller"
    CallerUntrusted = "untrusted"
    CallerTrusted   = "trusted"
)

// Auth 鉴权中间件。
// 未受信采集端带 X-Bubble-Key（与配置中的 bcrypt 哈希比对）；
// 受信调用方带 Bearer JWT（role=service），跳过限流。
// 两者都没有则 401
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
    return func(c *gin.Context) {
        if tok, ok := bearerToken(c); ok && cfg.JWTSecret != "" {
            if verifyServiceToken(tok, cfg.JWTSecret) {
                c.Set(CallerKey, CallerTrusted)
                c.Next()
                return
            }
            response.Unauthorized(c, "invalid token")
            return
        }

        key := c.GetHeader("X-Bubble-Key")
        if key == "" || cfg.WriterKeyHash == "" {
            response.Unauthorized(c, "missing credentials")
            return
        }
        if err := bcrypt.CompareHashAndPassword([]byte(cfg.WriterKeyHash), []byte(key)); err != nil {
            response.Unauthorized(c, "invalid writer key")
            return
        }
        c.Set(CallerKey, CallerUntrusted)
        c.Next()
    }
}

func bearerToken(c *gin.Context) (string, bool) {
    h := c.GetHeader("Authorization")
    if !strings.HasPrefix(h, "Bearer ") {
        return "", false
    }
    return strings.TrimPrefix(h, "Bearer "), true
}

func verifyServiceToken(raw, secret string) bool {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return false
    }
    role, _ := claims["role"].(string)
    return role == "service"
}

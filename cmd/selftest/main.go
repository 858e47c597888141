package main

import (
    "bytes"
    "encoding/json"
    "fmt"
    "net/http"
    "os"
    "time"
)

// 对运行中的网关做一次端到端自检：
//  1. 带写入密钥提交一条探针记录，应当成功
//  2. 原样重发同一 id，应当返回 409（只增不改）
//  3. 访问读取路径，必须不存在（insert-only 策略没有读接口）
func main() {
    base := getenv("GATEWAY_URL", "http://localhost:8080")
    key := os.Getenv("BUBBLE_API_KEY")
    if key == "" {
        fail("BUBBLE_API_KEY is required")
    }

    id := fmt.Sprintf("selftest-%d", time.Now().Unix())
    row := map[string]string{
        "typename":   "selftest",
        "username":   "selftest",
        "createtime": time.Now().UTC().Format(time.RFC3339),
        "content":    "selftest",
        "url":        "selftest",
        "id":         id,
    }
    body, _ := json.Marshal(row)

    status := post(base+"/api/v1/records", key, body)
    if status != http.StatusOK {
        fail(fmt.Sprintf("first insert: want 200, got %d", status))
    }
    fmt.Printf("insert ok: id=%s\n", id)

    status = post(base+"/api/v1/records", key, body)
    if status != http.StatusConflict {
        fail(fmt.Sprintf("duplicate insert: want 409, got %d", status))
    }
    fmt.Println("duplicate rejected: 409")

    // 读路径必须不存在
    resp, err := http.Get(base + "/api/v1/records/" + id)
    if err != nil {
        fail("read probe: " + err.Error())
    }
    resp.Body.Close()
    if resp.StatusCode == http.StatusOK {
        fail("read path exists: records must not be readable through the gateway")
    }
    fmt.Printf("read path absent: %d\n", resp.StatusCode)
    fmt.Println("selftest passed")
}

func post(url, key string, body []byte) int {
    req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
    if err != nil {
        fail(err.Error())
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("X-Bubble-Key", key)
    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        fail(err.Error())
    }
    defer resp.Body.Close()
    return resp.StatusCode
}

func getenv(k, def string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return def
}

func fail(msg string) {
    fmt.Fprintln(os.Stderr, "selftest failed: "+msg)
    os.Exit(1)
}

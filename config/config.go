package config

import (
    "fmt"
    "strings"
    "time"

    "github.com/spf13/viper"
)

// Config 应用全量配置
type Config struct {
    Server   ServerConfig   `mapstructure:"server"`
    Database DatabaseConfig `mapstructure:"database"`
    Redis    RedisConfig    `mapstructure:"redis"`
    Ingest   IngestConfig   `mapstructure:"ingest"`
    Auth     AuthConfig     `mapstructure:"auth"`
    Log      LogConfig      `mapstructure:"log"`
    Sentry   SentryConfig   `mapstructure:"sentry"`
    Trace    TraceConfig    `mapstructure:"trace"`
}

type ServerConfig struct {
    Port         int           `mapstructure:"port"`
    Mode         string        `mapstructure:"mode"` // debug / release / test
    ReadTimeout  time.Duration `mapstructure:"read_timeout"`
    WriteTimeout time.Duration `mapstructure:"write_timeout"`
    // MaxBodyBytes 单次提交请求体上限（content/url 本身无长度上限，
    // 这里只防止单请求吃光内存）
    MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
    Host     string `mapstructure:"host"`
    Port     int    `mapstructure:"port"`
    User     string `mapstructure:"user"` // 只授予 INSERT 权限的角色
    Password string `mapstructure:"password"`
    DBName   string `mapstructure:"dbname"`
    SSLMode  string `mapstructure:"sslmode"`

    MaxOpenConns    int           `mapstructure:"max_open_conns"`
    MaxIdleConns    int           `mapstructure:"max_idle_conns"`
    ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
    // AutoMigrate 仅用于本地开发；生产环境由 deploy/a_dis.sql 建表授权
    AutoMigrate bool `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
    // Enabled 为 false 时预约只依赖数据库主键约束
    Enabled bool `mapstructure:"enabled"`
}

type IngestConfig struct {
    // MaxInFlight 准入上限，超出的提交立即返回 overloaded
    MaxInFlight int `mapstructure:"max_in_flight"`
    // MaxRetries 瞬时错误的追加重试次数
    MaxRetries int `mapstructure:"max_retries"`
    // RetryBackoff 首次重试退避，之后指数增长
    RetryBackoff time.Duration `mapstructure:"retry_backoff"`
    // AppendTimeout 单次落库尝试的超时
    AppendTimeout time.Duration `mapstructure:"append_timeout"`
    // ReserveTTL 预约键的存活时间，持有方崩溃后自动释放
    ReserveTTL time.Duration `mapstructure:"reserve_ttl"`
    // StoredTTL 提交成功后已存在标记的存活时间
    StoredTTL time.Duration `mapstructure:"stored_ttl"`
    // RatePerSecond 全局限速（0 表示不限）
    RatePerSecond float64 `mapstructure:"rate_per_second"`
    RateBurst     int     `mapstructure:"rate_burst"`
}

type AuthConfig struct {
    // WriterKeyHash 写入方 X-Bubble-Key 的 bcrypt 哈希
    WriterKeyHash string `mapstructure:"writer_key_hash"`
    // JWTSecret 受信调用方（运维侧）JWT 校验密钥
    JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
    Level string `mapstructure:"level"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

type TraceConfig struct {
    // Endpoint OTLP HTTP 上报地址，空则不启用
    Endpoint string `mapstructure:"endpoint"`
    Service  string `mapstructure:"service"`
}

// Load 读取 config.yaml 并允许 INGEST_ 前缀环境变量覆盖
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")

    v.SetEnvPrefix("INGEST")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    setDefaults(v)

    if err := v.ReadInConfig(); err != nil {
        // 没有配置文件时全部走默认值 + 环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("unmarshal config: %w", err)
    }
    return &cfg, nil
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("server.port", 8080)
    v.SetDefault("server.mode", "release")
    v.SetDefault("server.read_timeout", "15s")
    v.SetDefault("server.write_timeout", "15s")
    v.SetDefault("server.max_body_bytes", 10*1024*1024)

    v.SetDefault("database.host", "localhost")
    v.SetDefault("database.port", 5432)
    v.SetDefault("database.user", "a_dis_writer")
    v.SetDefault("database.password", "")
    v.SetDefault("database.dbname", "postgres")
    v.SetDefault("database.sslmode", "disable")
    v.SetDefault("database.max_open_conns", 20)
    v.SetDefault("database.max_idle_conns", 5)
    v.SetDefault("database.conn_max_lifetime", "1h")
    v.SetDefault("database.auto_migrate", false)

    v.SetDefault("redis.addr", "localhost:6379")
    v.SetDefault("redis.db", 0)
    v.SetDefault("redis.enabled", true)

    v.SetDefault("ingest.max_in_flight", 100)
    v.SetDefault("ingest.max_retries", 3)
    v.SetDefault("ingest.retry_backoff", "100ms")
    v.SetDefault("ingest.append_timeout", "3s")
    v.SetDefault("ingest.reserve_ttl", "30s")
    v.SetDefault("ingest.stored_ttl", "24h")
    v.SetDefault("ingest.rate_per_second", 0)
    v.SetDefault("ingest.rate_burst", 200)

    v.SetDefault("log.level", "info")
    v.SetDefault("trace.service", "ingest-gateway")
}

// DSN 拼接 PostgreSQL 连接串
func (c *DatabaseConfig) DSN() string {
    return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
        c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

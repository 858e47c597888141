package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
    cfg, err := Load()
    require.NoError(t, err)

    require.Equal(t, 8080, cfg.Server.Port)
    require.Equal(t, "release", cfg.Server.Mode)
    require.EqualValues(t, 10*1024*1024, cfg.Server.MaxBodyBytes)
    require.Equal(t, 100, cfg.Ingest.MaxInFlight)
    require.Equal(t, 3, cfg.Ingest.MaxRetries)
    require.Equal(t, 100*time.Millisecond, cfg.Ingest.RetryBackoff)
    require.Equal(t, 3*time.Second, cfg.Ingest.AppendTimeout)
    require.Equal(t, 30*time.Second, cfg.Ingest.ReserveTTL)
    require.True(t, cfg.Redis.Enabled)
    require.False(t, cfg.Database.AutoMigrate)
}

func TestLoadEnvOverride(t *testing.T) {
    t.Setenv("INGEST_SERVER_PORT", "9999")
    t.Setenv("INGEST_INGEST_MAX_IN_FLIGHT", "7")
    t.Setenv("INGEST_DATABASE_USER", "someone")

    cfg, err := Load()
    require.NoError(t, err)
    require.Equal(t, 9999, cfg.Server.Port)
    require.Equal(t, 7, cfg.Ingest.MaxInFlight)
    require.Equal(t, "someone", cfg.Database.User)
}

func TestDSN(t *testing.T) {
    c := DatabaseConfig{
        Host: "db.local", Port: 5433, User: "a_dis_writer",
        Password: "pw", DBName: "archive", SSLMode: "require",
    }
    require.Equal(t,
        "host=db.local user=a_dis_writer password=pw dbname=archive port=5433 sslmode=require",
        c.DSN())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
ServiceHost = "127.0.0.1"
ServicePort = 9090
LogLevel = "debug"
CORSOrigins = ["http://localhost:3000"]

[JWT]
ExpiresIn = "2h"

[MinIO]
Endpoint = "minio:9000"
Bucket = "files"
`

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestNewConfig(t *testing.T) {
	writeConfig(t, testConfig)
	t.Setenv("CONFIG_NAME", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("MINIO_BUCKET", "override")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.ServiceHost != "127.0.0.1" || cfg.ServicePort != 9090 {
		t.Errorf("address = %s:%d", cfg.ServiceHost, cfg.ServicePort)
	}
	if cfg.JWT.ExpiresIn != 2*time.Hour {
		t.Errorf("jwt expires in = %v", cfg.JWT.ExpiresIn)
	}
	if cfg.JWT.Token != "secret" {
		t.Errorf("jwt token = %q", cfg.JWT.Token)
	}
	if cfg.Redis.Host != "redis" || cfg.Redis.Port != 6380 {
		t.Errorf("redis = %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}
	if cfg.MinIO.Endpoint != "minio:9000" || cfg.MinIO.Bucket != "override" {
		t.Errorf("minio = %+v", cfg.MinIO)
	}
	if cfg.MaxUploadMB != 20 {
		t.Errorf("max upload = %d, want default 20", cfg.MaxUploadMB)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestNewConfigRequiresJWTSecret(t *testing.T) {
	writeConfig(t, testConfig)
	t.Setenv("CONFIG_NAME", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestNewConfigBadRedisPort(t *testing.T) {
	writeConfig(t, testConfig)
	t.Setenv("CONFIG_NAME", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_PORT", "not-a-port")

	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error for bad redis port")
	}
}

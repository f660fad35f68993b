package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.LockBuffer != 30*time.Minute {
		t.Fatalf("unexpected LockBuffer: %s", cfg.LockBuffer)
	}
	if cfg.ProxyPickCap != 2 {
		t.Fatalf("unexpected ProxyPickCap: %d", cfg.ProxyPickCap)
	}
	if cfg.SweepMaxWorkers != 4 {
		t.Fatalf("unexpected SweepMaxWorkers: %d", cfg.SweepMaxWorkers)
	}
	if cfg.TickInterval != 5*time.Minute {
		t.Fatalf("unexpected TickInterval: %s", cfg.TickInterval)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_PolicyOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("POOL_LOCK_BUFFER", "45m")
	t.Setenv("POOL_PROXY_PICK_CAP", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LockBuffer != 45*time.Minute {
		t.Fatalf("unexpected LockBuffer: %s", cfg.LockBuffer)
	}
	if cfg.ProxyPickCap != 3 {
		t.Fatalf("unexpected ProxyPickCap: %d", cfg.ProxyPickCap)
	}
}

func TestLoad_PolicyValidation(t *testing.T) {
	t.Run("proxy cap must be positive", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("POOL_PROXY_PICK_CAP", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for POOL_PROXY_PICK_CAP=0")
		}
	})

	t.Run("lock buffer cannot be negative", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("POOL_LOCK_BUFFER", "-5m")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative POOL_LOCK_BUFFER")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_QStashRequiresTargetWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "qstash-token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without QSTASH_TARGET_BASE_URL")
	}
}

func TestLoad_QStashConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "qstash-token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://pool.example.com")
	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
	t.Setenv("QSTASH_RETRIES", "5")
	t.Setenv("QSTASH_CIRCUIT_OPEN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.QStashRetries != 5 {
		t.Fatalf("unexpected QStashRetries: %d", cfg.QStashRetries)
	}
	if cfg.QStashCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected QStashCircuitOpenTimeout: %s", cfg.QStashCircuitOpenTimeout)
	}
	if cfg.InternalJobToken != "job-token" {
		t.Fatalf("unexpected InternalJobToken")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

package authservice

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte(strings.Repeat("k", 32))
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Iterations = 1
	return cfg
}

func TestDefaultConfigNeedsOnlySecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected default config without secret to fail")
	}

	cfg.JWT.Secret = []byte(strings.Repeat("k", 32))
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.JWT.TTL != 10*time.Minute || cfg.TwoFA.TTL != 10*time.Minute {
		t.Fatalf("unexpected default TTLs %v %v", cfg.JWT.TTL, cfg.TwoFA.TTL)
	}
	if cfg.TwoFA.Subject != "Your 2FA Code" {
		t.Fatalf("unexpected default subject %q", cfg.TwoFA.Subject)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = []byte("short") }},
		{"zero token ttl", func(c *Config) { c.JWT.TTL = 0 }},
		{"negative leeway", func(c *Config) { c.JWT.Leeway = -time.Second }},
		{"large leeway", func(c *Config) { c.JWT.Leeway = time.Hour }},
		{"zero challenge ttl", func(c *Config) { c.TwoFA.TTL = 0 }},
		{"empty subject", func(c *Config) { c.TwoFA.Subject = "" }},
		{"weak argon2 memory", func(c *Config) { c.Password.Memory = 1024 }},
		{"negative pool", func(c *Config) { c.Password.PoolSize = -1 }},
		{"negative attempts", func(c *Config) { c.Limits.MaxFailedAttempts = -1 }},
		{"attempts without window", func(c *Config) { c.Limits.Window = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfigLimitsDisabledNeedsNoWindow(t *testing.T) {
	cfg := validTestConfig()
	cfg.Limits.MaxFailedAttempts = 0
	cfg.Limits.Window = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestBuildConfigImmutabilityAgainstExternalMutation(t *testing.T) {
	cfg := validTestConfig()
	b := New().WithConfig(cfg)

	cfg.JWT.Secret[0] = 'x'

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if engine.config.JWT.Secret[0] != 'k' {
		t.Fatal("engine config must not alias caller's secret")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(validTestConfig())
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

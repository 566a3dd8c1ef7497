package lectureauth

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = []byte("too short") }},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *Config) { c.JWT.RefreshTTL = 0 }},
		{"refresh shorter than access", func(c *Config) {
			c.JWT.AccessTTL = time.Hour
			c.JWT.RefreshTTL = time.Minute
		}},
		{"negative leeway", func(c *Config) { c.JWT.Leeway = -time.Second }},
		{"reset enabled without ttl", func(c *Config) {
			c.PasswordReset.Enabled = true
			c.PasswordReset.ResetTTL = 0
		}},
	}
	for _, tc := range cases {
		bad := testConfig()
		tc.mutate(&bad)
		if err := bad.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestBuilderRequirements(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)

	if _, err := New().WithConfig(testConfig()).WithPrincipalProvider(provider).WithHasher(hasher).Build(); err == nil {
		t.Fatal("expected error without redis client")
	}
	if _, err := New().WithConfig(testConfig()).WithRedis(rdb).WithHasher(hasher).Build(); err == nil {
		t.Fatal("expected error without principal provider")
	}
	if _, err := New().WithConfig(testConfig()).WithRedis(rdb).WithPrincipalProvider(provider).Build(); err == nil {
		t.Fatal("expected error without hasher")
	}

	b := New().WithConfig(testConfig()).WithRedis(rdb).WithPrincipalProvider(provider).WithHasher(hasher)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on builder reuse")
	}
}

func TestConfigCloneIsolation(t *testing.T) {
	secret := make([]byte, 32)
	copy(secret, testSecret)

	cfg := testConfig()
	cfg.JWT.Secret = secret

	cloned := cloneConfig(cfg)
	secret[0] ^= 0xff

	if cloned.JWT.Secret[0] == secret[0] {
		t.Fatal("clone must not share the secret backing array")
	}
}

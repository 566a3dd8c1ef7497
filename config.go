package lectureauth

import (
	"errors"
	"time"
)

// JWTConfig controls access token signing and the two token lifetimes.
type JWTConfig struct {
	// Secret is the HS256 signing key. Minimum 32 bytes.
	Secret []byte
	// Issuer is stamped into the iss claim when non-empty.
	Issuer string
	// AccessTTL bounds how long a signed access token verifies.
	AccessTTL time.Duration
	// RefreshTTL bounds how long a refresh token stays in the registry.
	RefreshTTL time.Duration
	// Leeway tolerates clock skew during expiry checks.
	Leeway time.Duration
}

// SessionConfig controls the Redis-backed refresh registry and blacklist.
type SessionConfig struct {
	// RedisPrefix namespaces every key this engine writes. Optional.
	RedisPrefix string
}

// PasswordResetConfig controls the single-use reset token flow.
type PasswordResetConfig struct {
	Enabled bool
	// ResetTTL is the validity window of an issued reset token.
	ResetTTL time.Duration
}

// AuditConfig controls the async audit event pipeline.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking request paths when the
	// buffer is saturated.
	DropIfFull bool
}

// Config is the full engine configuration tree.
type Config struct {
	JWT           JWTConfig
	Session       SessionConfig
	PasswordReset PasswordResetConfig
	Audit         AuditConfig
}

// DefaultConfig returns the production preset: 1h access tokens, 14d
// refresh registry entries, 15m reset tokens.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 14 * 24 * time.Hour,
			Leeway:     0,
		},
		PasswordReset: PasswordResetConfig{
			Enabled:  true,
			ResetTTL: 15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate rejects configurations that would weaken or break the engine.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT.Secret must be at least 32 bytes")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT.AccessTTL must be positive")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT.RefreshTTL must be positive")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("JWT.RefreshTTL must not be shorter than JWT.AccessTTL")
	}
	if c.JWT.Leeway < 0 {
		return errors.New("JWT.Leeway must not be negative")
	}
	if c.PasswordReset.Enabled && c.PasswordReset.ResetTTL <= 0 {
		return errors.New("PasswordReset.ResetTTL must be positive when enabled")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

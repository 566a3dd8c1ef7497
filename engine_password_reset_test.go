package lectureauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPasswordResetFlow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)
	engine := newTestEngine(t, rdb, provider, hasher, testConfig())
	defer engine.Close()

	token, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty reset token")
	}

	email, err := rdb.Get(ctx, "reset:"+token).Result()
	if err != nil {
		t.Fatalf("reset entry missing: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("reset entry = %q, want the verified email", email)
	}

	if err := engine.ResetPassword(ctx, token, "brand new secret"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "correct horse battery"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("old secret after reset: got %v, want ErrInvalidCredential", err)
	}
	if _, err := engine.Login(ctx, "alice@example.com", "brand new secret"); err != nil {
		t.Fatalf("new secret after reset: %v", err)
	}
}

func TestPasswordResetTokenSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)
	engine := newTestEngine(t, rdb, provider, hasher, testConfig())
	defer engine.Close()

	token, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	if err := engine.ResetPassword(ctx, token, "first new secret"); err != nil {
		t.Fatalf("first ResetPassword failed: %v", err)
	}
	if err := engine.ResetPassword(ctx, token, "second new secret"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("replayed token: got %v, want ErrInvalidResetToken", err)
	}

	// The replay changed nothing.
	if _, err := engine.Login(ctx, "alice@example.com", "first new secret"); err != nil {
		t.Fatalf("secret from the winning reset must hold: %v", err)
	}
}

func TestPasswordResetTokenExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)
	engine := newTestEngine(t, rdb, provider, hasher, testConfig())
	defer engine.Close()

	token, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	mr.FastForward(16 * time.Minute)

	if err := engine.ResetPassword(ctx, token, "too late"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidResetToken", err)
	}
}

func TestPasswordResetRejectsUnknownPair(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)
	engine := newTestEngine(t, rdb, provider, hasher, testConfig())
	defer engine.Close()

	if _, err := engine.RequestPasswordReset(ctx, "alice", "wrong@example.com"); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("mismatched pair: got %v, want ErrPrincipalNotFound", err)
	}
	if _, err := engine.RequestPasswordReset(ctx, "mallory", "alice@example.com"); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("wrong name: got %v, want ErrPrincipalNotFound", err)
	}
}

func TestPasswordResetRejectsInactiveAccount(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)
	engine := newTestEngine(t, rdb, provider, hasher, testConfig())
	defer engine.Close()

	provider.setActive(1, false)

	if _, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com"); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("deactivated account: got %v, want ErrInactiveAccount", err)
	}

	// No reset entry may exist for the refused request.
	keys := mr.Keys()
	for _, key := range keys {
		if len(key) > 6 && key[:6] == "reset:" {
			t.Fatalf("refused request left a reset entry %q", key)
		}
	}
}

func TestPasswordResetDisabled(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)

	cfg := testConfig()
	cfg.PasswordReset.Enabled = false
	engine := newTestEngine(t, rdb, provider, hasher, cfg)
	defer engine.Close()

	if _, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com"); !errors.Is(err, ErrPasswordResetDisabled) {
		t.Fatalf("got %v, want ErrPasswordResetDisabled", err)
	}
	if err := engine.ResetPassword(ctx, "any", "any"); !errors.Is(err, ErrPasswordResetDisabled) {
		t.Fatalf("got %v, want ErrPasswordResetDisabled", err)
	}
}

func TestPasswordResetStoreUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)

	ctx := context.Background()
	hasher := newTestHasher()
	provider := newTestProvider(t, hasher)
	engine := newTestEngine(t, rdb, provider, hasher, testConfig())
	defer engine.Close()

	token, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	mr.Close()

	if _, err := engine.RequestPasswordReset(ctx, "alice", "alice@example.com"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("request with store down: got %v, want ErrStoreUnavailable", err)
	}
	if err := engine.ResetPassword(ctx, token, "whatever"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("confirm with store down: got %v, want ErrStoreUnavailable", err)
	}
}

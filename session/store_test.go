package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Client, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client, NewStore(client, "")
}

func TestRefreshRegistryRoundTrip(t *testing.T) {
	mr, _, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.RegisterRefresh(ctx, "tok", 99, time.Hour); err != nil {
		t.Fatalf("RegisterRefresh failed: %v", err)
	}

	id, err := store.LookupRefresh(ctx, "tok")
	if err != nil {
		t.Fatalf("LookupRefresh failed: %v", err)
	}
	if id != 99 {
		t.Fatalf("LookupRefresh = %d, want 99", id)
	}

	if _, err := store.LookupRefresh(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing token: got %v, want ErrNotFound", err)
	}
}

func TestRefreshRegistryExpiry(t *testing.T) {
	mr, _, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.RegisterRefresh(ctx, "tok", 99, time.Minute); err != nil {
		t.Fatalf("RegisterRefresh failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.LookupRefresh(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry: got %v, want ErrNotFound", err)
	}
}

func TestRevokeRefreshIdempotent(t *testing.T) {
	mr, _, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.RegisterRefresh(ctx, "tok", 99, time.Hour); err != nil {
		t.Fatalf("RegisterRefresh failed: %v", err)
	}
	if err := store.RevokeRefresh(ctx, "tok"); err != nil {
		t.Fatalf("RevokeRefresh failed: %v", err)
	}
	if err := store.RevokeRefresh(ctx, "tok"); err != nil {
		t.Fatalf("second RevokeRefresh failed: %v", err)
	}
	if _, err := store.LookupRefresh(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked entry: got %v, want ErrNotFound", err)
	}
}

func TestCorruptRegistryEntryReadsAsMiss(t *testing.T) {
	mr, client, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := client.Set(ctx, "refresh:tok", "not-a-number", time.Hour).Err(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.LookupRefresh(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt entry: got %v, want ErrNotFound", err)
	}
}

func TestBlacklist(t *testing.T) {
	mr, _, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Blacklist(ctx, "tok", 30*time.Minute); err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}

	revoked, err := store.IsBlacklisted(ctx, "tok")
	if err != nil {
		t.Fatalf("IsBlacklisted failed: %v", err)
	}
	if !revoked {
		t.Fatal("expected token to be blacklisted")
	}

	mr.FastForward(31 * time.Minute)
	revoked, err = store.IsBlacklisted(ctx, "tok")
	if err != nil {
		t.Fatalf("IsBlacklisted failed: %v", err)
	}
	if revoked {
		t.Fatal("blacklist entry must expire with the token")
	}
}

func TestBlacklistSkipsDeadTokens(t *testing.T) {
	mr, client, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Blacklist(ctx, "tok", 0); err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}
	if err := store.Blacklist(ctx, "tok", -time.Minute); err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}
	if client.Exists(ctx, "blacklist:tok").Val() != 0 {
		t.Fatal("no entry must be written for an already dead token")
	}
}

func TestStorePrefix(t *testing.T) {
	mr, client, _ := newTestStore(t)
	defer mr.Close()

	store := NewStore(client, "app:")
	ctx := context.Background()
	if err := store.RegisterRefresh(ctx, "tok", 7, time.Hour); err != nil {
		t.Fatalf("RegisterRefresh failed: %v", err)
	}
	if client.Exists(ctx, "app:refresh:tok").Val() != 1 {
		t.Fatal("expected the prefixed key layout")
	}
}

func TestStoreUnavailable(t *testing.T) {
	mr, _, store := newTestStore(t)
	mr.Close()

	ctx := context.Background()
	if err := store.RegisterRefresh(ctx, "tok", 1, time.Hour); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("RegisterRefresh: got %v, want ErrUnavailable", err)
	}
	if _, err := store.LookupRefresh(ctx, "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("LookupRefresh: got %v, want ErrUnavailable", err)
	}
	if err := store.RevokeRefresh(ctx, "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("RevokeRefresh: got %v, want ErrUnavailable", err)
	}
	if err := store.Blacklist(ctx, "tok", time.Hour); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Blacklist: got %v, want ErrUnavailable", err)
	}
	if _, err := store.IsBlacklisted(ctx, "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("IsBlacklisted: got %v, want ErrUnavailable", err)
	}
}

package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec(Config{Secret: testSecret, Issuer: "test"})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return codec
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(42, "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	id, err := claims.PrincipalID()
	if err != nil {
		t.Fatalf("PrincipalID failed: %v", err)
	}
	if id != 42 || claims.Role != "ADMIN" {
		t.Fatalf("claims = id %d role %q, want 42/ADMIN", id, claims.Role)
	}
	if remaining := claims.RemainingTTL(time.Now()); remaining <= 0 || remaining > time.Hour {
		t.Fatalf("RemainingTTL = %v, want within the issued hour", remaining)
	}
}

func TestCodecIssuesDistinctTokens(t *testing.T) {
	codec := newTestCodec(t)

	a, err := codec.Issue(1, "USER", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	b, err := codec.Issue(1, "USER", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if a == b {
		t.Fatal("two issuances for the same principal must differ")
	}
}

func TestCodecRejectsExpired(t *testing.T) {
	codec := newTestCodec(t)
	codec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := codec.Issue(7, "USER", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	codec.now = time.Now

	if _, err := codec.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("got %v, want ErrExpired", err)
	}

	// Signature still checks out, so the lenient parse succeeds and
	// reports a spent lifetime.
	claims, err := codec.ParseAllowExpired(token)
	if err != nil {
		t.Fatalf("ParseAllowExpired failed: %v", err)
	}
	if claims.RemainingTTL(time.Now()) > 0 {
		t.Fatal("expired token must report non-positive remaining TTL")
	}
}

func TestCodecRejectsTampering(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(7, "USER", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Verify: got %v, want ErrInvalid", err)
	}
	if _, err := codec.ParseAllowExpired(tampered); !errors.Is(err, ErrInvalid) {
		t.Fatalf("ParseAllowExpired: got %v, want ErrInvalid", err)
	}
	if _, err := codec.Verify("not.a.jwt"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("garbage: got %v, want ErrInvalid", err)
	}
}

func TestCodecRejectsWrongKey(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec(Config{Secret: []byte("ffffffffffffffffffffffffffffffff")})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	token, err := other.Issue(7, "USER", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestNewCodecRejectsWeakSecret(t *testing.T) {
	if _, err := NewCodec(Config{Secret: []byte("short")}); err == nil {
		t.Fatal("expected error for a short secret")
	}
}

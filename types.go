package lectureauth

import (
	"context"
	"time"
)

// Principal is the account slice the credential core consumes. Providers
// return it from lookups; the engine never persists it directly.
type Principal struct {
	ID             int64
	Name           string
	Email          string
	CredentialHash string
	Role           string
	Active         bool
}

// PrincipalProvider is the host-supplied account lookup surface.
// Implementations return ErrPrincipalNotFound when no account matches and
// may return ErrStoreUnavailable for infrastructure faults; any other
// error is passed through untouched.
type PrincipalProvider interface {
	FindByEmail(ctx context.Context, email string) (Principal, error)
	FindByNameAndEmail(ctx context.Context, name, email string) (Principal, error)
	FindByID(ctx context.Context, id int64) (Principal, error)
	UpdateCredentialHash(ctx context.Context, id int64, hash string) error
}

// Hasher abstracts the secret hashing scheme so the engine never sees a
// plaintext comparison strategy.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// TokenPair is what a successful login hands back: a signed access token
// and an opaque refresh token already registered in the session store.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult identifies the principal behind a validated access token.
type AuthResult struct {
	PrincipalID int64
	Role        string
	ExpiresAt   time.Time
}

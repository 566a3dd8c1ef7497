package lectureauth

import (
	"context"
	"time"

	"github.com/ktnu/lectureauth/internal"
	"github.com/ktnu/lectureauth/jwt"
	"github.com/ktnu/lectureauth/session"
)

// Issuer mints the two credential shapes: signed access tokens and opaque
// registered refresh tokens. Immutable after construction.
type Issuer struct {
	codec      *jwt.Codec
	sessions   *session.Store
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer wires an issuer over the codec and the session store.
func NewIssuer(codec *jwt.Codec, sessions *session.Store, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		codec:      codec,
		sessions:   sessions,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess signs a short-lived access token for the principal.
func (i *Issuer) IssueAccess(p Principal) (string, error) {
	return i.codec.Issue(p.ID, p.Role, i.accessTTL)
}

// IssueRefresh mints a random token and registers it before returning.
// If registration fails the token is never handed out, so an unregistered
// refresh token cannot exist.
func (i *Issuer) IssueRefresh(ctx context.Context, principalID int64) (string, error) {
	token, err := internal.NewRefreshToken()
	if err != nil {
		return "", err
	}
	if err := i.sessions.RegisterRefresh(ctx, token, principalID, i.refreshTTL); err != nil {
		return "", err
	}
	return token, nil
}

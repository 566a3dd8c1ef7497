package lectureauth

import (
	"context"

	"github.com/ktnu/lectureauth/internal/flows"
)

func (e *Engine) verifyIdentity(token string) (flows.TokenIdentity, error) {
	claims, err := e.codec.Verify(token)
	if err != nil {
		return flows.TokenIdentity{}, err
	}
	principalID, err := claims.PrincipalID()
	if err != nil {
		return flows.TokenIdentity{}, err
	}
	return flows.TokenIdentity{
		PrincipalID: principalID,
		Role:        claims.Role,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// ValidateAccess authorizes one request's access token. The blacklist is
// consulted before the signature: a revoked token reports ErrBlacklisted
// even when it is also expired or mangled, and a blacklist outage reports
// ErrStoreUnavailable instead of guessing either way.
func (e *Engine) ValidateAccess(ctx context.Context, accessToken string) (*AuthResult, error) {
	if !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	res := e.flows.Validate(ctx, accessToken)
	switch res.Failure {
	case flows.ValidateFailureNone:
		return &AuthResult{
			PrincipalID: res.Identity.PrincipalID,
			Role:        res.Identity.Role,
			ExpiresAt:   res.Identity.ExpiresAt,
		}, nil
	case flows.ValidateFailureBlacklisted:
		return nil, ErrBlacklisted
	case flows.ValidateFailureExpired:
		return nil, wrapSentinel(ErrTokenExpired, res.Err)
	case flows.ValidateFailureInvalid:
		return nil, wrapSentinel(ErrInvalidSignature, res.Err)
	case flows.ValidateFailureStoreUnavailable:
		return nil, wrapSentinel(ErrStoreUnavailable, res.Err)
	default:
		return nil, internalError(res.Err)
	}
}

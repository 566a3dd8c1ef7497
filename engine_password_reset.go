package lectureauth

import (
	"context"
	"errors"

	"github.com/ktnu/lectureauth/internal/flows"
)

// ErrPasswordResetDisabled reports that the reset feature is turned off
// in the engine config.
var ErrPasswordResetDisabled = errors.New("lectureauth: password reset disabled")

// RequestPasswordReset verifies the name/email pair against the provider
// and returns a single-use reset token valid for the configured window.
// The engine does not deliver the token; the caller owns the channel.
func (e *Engine) RequestPasswordReset(ctx context.Context, name, email string) (string, error) {
	if !e.flows.Initialized() {
		return "", ErrEngineNotReady
	}

	res := e.flows.RequestPasswordReset(ctx, name, email)
	switch res.Failure {
	case flows.ResetFailureNone:
		return res.Token, nil
	case flows.ResetFailureDisabled:
		return "", ErrPasswordResetDisabled
	case flows.ResetFailurePrincipalNotFound:
		return "", wrapSentinel(ErrPrincipalNotFound, res.Err)
	case flows.ResetFailureInactiveAccount:
		return "", ErrInactiveAccount
	case flows.ResetFailureStoreUnavailable:
		return "", wrapSentinel(ErrStoreUnavailable, res.Err)
	default:
		return "", internalError(res.Err)
	}
}

// ResetPassword consumes the reset token and replaces the credential
// hash. A second call with the same token fails with
// ErrInvalidResetToken regardless of timing.
func (e *Engine) ResetPassword(ctx context.Context, token, newSecret string) error {
	if !e.flows.Initialized() {
		return ErrEngineNotReady
	}

	res := e.flows.ConfirmPasswordReset(ctx, token, newSecret)
	switch res.Failure {
	case flows.ResetFailureNone:
		return nil
	case flows.ResetFailureDisabled:
		return ErrPasswordResetDisabled
	case flows.ResetFailureInvalidToken:
		return wrapSentinel(ErrInvalidResetToken, res.Err)
	case flows.ResetFailurePrincipalNotFound:
		return wrapSentinel(ErrPrincipalNotFound, res.Err)
	case flows.ResetFailureStoreUnavailable:
		return wrapSentinel(ErrStoreUnavailable, res.Err)
	default:
		return internalError(res.Err)
	}
}

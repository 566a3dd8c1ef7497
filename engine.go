package lectureauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ktnu/lectureauth/internal/flows"
	"github.com/ktnu/lectureauth/jwt"
	"github.com/ktnu/lectureauth/session"
)

// ErrEngineNotReady reports a misconstructed engine, typically a zero
// value used without the Builder.
var ErrEngineNotReady = errors.New("lectureauth: engine not initialized")

var errEngineInternal = errors.New("lectureauth: internal failure")

// Engine is the credential lifecycle service. Build one with the Builder;
// a built engine is immutable and safe for concurrent use.
type Engine struct {
	config   Config
	codec    *jwt.Codec
	sessions *session.Store
	resets   *resetCredentialStore
	issuer   *Issuer
	provider PrincipalProvider
	hasher   Hasher
	flows    flows.Service
	audit    *auditDispatcher
	metrics  *Metrics
}

// Login authenticates the email/secret pair and issues a token pair. The
// refresh registration and the token handout are not atomic: a crash in
// between leaves an orphaned registry entry that expires on its own.
func (e *Engine) Login(ctx context.Context, email, secret string) (*TokenPair, error) {
	if !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	res := e.flows.Login(ctx, email, secret)
	switch res.Failure {
	case flows.LoginFailureNone:
		return &TokenPair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
	case flows.LoginFailurePrincipalNotFound:
		return nil, wrapSentinel(ErrPrincipalNotFound, res.Err)
	case flows.LoginFailureInactiveAccount:
		return nil, ErrInactiveAccount
	case flows.LoginFailureInvalidCredential:
		return nil, ErrInvalidCredential
	case flows.LoginFailureStoreUnavailable:
		return nil, wrapSentinel(ErrStoreUnavailable, res.Err)
	default:
		return nil, internalError(res.Err)
	}
}

// Refresh exchanges a registered refresh token for a fresh access token.
// The refresh token itself is neither rotated nor revoked.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if !e.flows.Initialized() {
		return "", ErrEngineNotReady
	}

	res := e.flows.Refresh(ctx, refreshToken)
	switch res.Failure {
	case flows.RefreshFailureNone:
		return res.AccessToken, nil
	case flows.RefreshFailureInvalidToken:
		return "", wrapSentinel(ErrInvalidRefreshToken, res.Err)
	case flows.RefreshFailurePrincipalNotFound:
		return "", wrapSentinel(ErrPrincipalNotFound, res.Err)
	case flows.RefreshFailureInactiveAccount:
		return "", ErrInactiveAccount
	case flows.RefreshFailureStoreUnavailable:
		return "", wrapSentinel(ErrStoreUnavailable, res.Err)
	default:
		return "", internalError(res.Err)
	}
}

// Logout revokes both credentials. It is idempotent and succeeds even
// when the access token is already expired or unparseable; only a store
// outage fails it.
func (e *Engine) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if !e.flows.Initialized() {
		return ErrEngineNotReady
	}

	res := e.flows.Logout(ctx, accessToken, refreshToken)
	switch res.Failure {
	case flows.LogoutFailureNone:
		return nil
	case flows.LogoutFailureStoreUnavailable:
		return wrapSentinel(ErrStoreUnavailable, res.Err)
	default:
		return internalError(res.Err)
	}
}

// accessRemaining verifies the signature without enforcing expiry and
// reports the token's remaining lifetime.
func (e *Engine) accessRemaining(token string) (time.Duration, error) {
	claims, err := e.codec.ParseAllowExpired(token)
	if err != nil {
		return 0, err
	}
	return claims.RemainingTTL(time.Now()), nil
}

// Close drains and stops the audit pipeline. The engine must not be used
// after Close.
func (e *Engine) Close() {
	e.audit.Close()
}

// MetricsSnapshot returns the current counter values.
func (e *Engine) MetricsSnapshot() map[string]uint64 {
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were shed under load.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, principalID int64, cause error, meta func() map[string]string) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp:   time.Now(),
		EventType:   eventType,
		PrincipalID: principalID,
		IP:          clientIPFromContext(ctx),
		Success:     success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if meta != nil {
		event.Metadata = meta()
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) metricInc(id int) {
	e.metrics.Inc(MetricID(id))
}

func wrapSentinel(sentinel *Error, cause error) error {
	if cause == nil {
		return sentinel
	}
	return kindError(sentinel.Kind, sentinel.Message, cause)
}

func internalError(cause error) error {
	if cause == nil {
		return errEngineInternal
	}
	return fmt.Errorf("%w: %v", errEngineInternal, cause)
}

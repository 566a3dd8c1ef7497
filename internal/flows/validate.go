package flows

import (
	"context"
	"time"
)

// ValidateFailureKind classifies validation failures for root-level
// mapping.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureBlacklisted
	ValidateFailureExpired
	ValidateFailureInvalid
	ValidateFailureStoreUnavailable
	ValidateFailureInternal
)

// TokenIdentity is the verified payload of an access token.
type TokenIdentity struct {
	PrincipalID int64
	Role        string
	ExpiresAt   time.Time
}

// ValidateResult carries the verified identity or a classified failure.
type ValidateResult struct {
	Failure  ValidateFailureKind
	Err      error
	Identity TokenIdentity
}

// ValidateMetrics carries metric IDs incremented by the validate flow.
type ValidateMetrics struct {
	BlacklistHit int
	StoreError   int
}

// ValidateEvents carries audit event names used by the validate flow.
type ValidateEvents struct {
	BlacklistHit string
}

// ValidateDeps captures validation flow dependencies.
type ValidateDeps struct {
	IsBlacklisted func(context.Context, string) (bool, error)
	// Verify checks signature, structure, and expiry.
	Verify func(string) (TokenIdentity, error)

	// IsExpired distinguishes an expiry failure from every other Verify
	// failure.
	IsExpired     func(error) bool
	IsUnavailable func(error) bool

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, int64, error, func() map[string]string)

	Metrics ValidateMetrics
	Events  ValidateEvents
}

// RunValidate checks the blacklist before the signature. The order is
// deliberate: a revoked token must be rejected as revoked even if it has
// also expired or been tampered with, and a blacklist outage must surface
// as an outage rather than let a possibly revoked token through.
func RunValidate(ctx context.Context, accessToken string, deps ValidateDeps) ValidateResult {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, int64, error, func() map[string]string) {}
	}
	if deps.IsBlacklisted == nil ||
		deps.Verify == nil ||
		deps.IsExpired == nil ||
		deps.IsUnavailable == nil {
		return ValidateResult{Failure: ValidateFailureInternal}
	}

	revoked, err := deps.IsBlacklisted(ctx, accessToken)
	if err != nil {
		if deps.IsUnavailable(err) {
			deps.MetricInc(deps.Metrics.StoreError)
			return ValidateResult{Failure: ValidateFailureStoreUnavailable, Err: err}
		}
		return ValidateResult{Failure: ValidateFailureInternal, Err: err}
	}
	if revoked {
		deps.MetricInc(deps.Metrics.BlacklistHit)
		deps.EmitAudit(ctx, deps.Events.BlacklistHit, false, 0, nil, nil)
		return ValidateResult{Failure: ValidateFailureBlacklisted}
	}

	identity, err := deps.Verify(accessToken)
	if err != nil {
		if deps.IsExpired(err) {
			return ValidateResult{Failure: ValidateFailureExpired, Err: err}
		}
		return ValidateResult{Failure: ValidateFailureInvalid, Err: err}
	}

	return ValidateResult{Identity: identity}
}

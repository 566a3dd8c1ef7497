package flows

import (
	"context"
	"time"
)

// LogoutFailureKind classifies logout failures for root-level mapping.
type LogoutFailureKind int

const (
	LogoutFailureNone LogoutFailureKind = iota
	LogoutFailureStoreUnavailable
	LogoutFailureInternal
)

// LogoutResult reports the outcome of a logout attempt.
type LogoutResult struct {
	Failure     LogoutFailureKind
	Err         error
	Blacklisted bool
}

// LogoutMetrics carries metric IDs incremented by the logout flow.
type LogoutMetrics struct {
	Done       int
	StoreError int
}

// LogoutEvents carries audit event names used by the logout flow.
type LogoutEvents struct {
	Done string
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	// AccessRemaining verifies the signature without enforcing expiry and
	// reports how long the token would otherwise stay valid.
	AccessRemaining func(string) (time.Duration, error)
	Blacklist       func(context.Context, string, time.Duration) error
	RevokeRefresh   func(context.Context, string) error

	IsUnavailable func(error) bool

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, int64, error, func() map[string]string)

	Metrics LogoutMetrics
	Events  LogoutEvents
}

// RunLogout blacklists the access token for its remaining lifetime and
// revokes the refresh token. An expired or malformed access token is not
// an error: it cannot authenticate anyway, so there is nothing to
// blacklist and the flow proceeds to refresh revocation. Both effects are
// idempotent.
func RunLogout(ctx context.Context, accessToken, refreshToken string, deps LogoutDeps) LogoutResult {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, int64, error, func() map[string]string) {}
	}
	if deps.AccessRemaining == nil ||
		deps.Blacklist == nil ||
		deps.RevokeRefresh == nil ||
		deps.IsUnavailable == nil {
		return LogoutResult{Failure: LogoutFailureInternal}
	}

	blacklisted := false
	if accessToken != "" {
		remaining, err := deps.AccessRemaining(accessToken)
		if err == nil && remaining > 0 {
			if err := deps.Blacklist(ctx, accessToken, remaining); err != nil {
				if deps.IsUnavailable(err) {
					deps.MetricInc(deps.Metrics.StoreError)
					return LogoutResult{Failure: LogoutFailureStoreUnavailable, Err: err}
				}
				return LogoutResult{Failure: LogoutFailureInternal, Err: err}
			}
			blacklisted = true
		}
	}

	if refreshToken != "" {
		if err := deps.RevokeRefresh(ctx, refreshToken); err != nil {
			if deps.IsUnavailable(err) {
				deps.MetricInc(deps.Metrics.StoreError)
				return LogoutResult{Failure: LogoutFailureStoreUnavailable, Err: err, Blacklisted: blacklisted}
			}
			return LogoutResult{Failure: LogoutFailureInternal, Err: err, Blacklisted: blacklisted}
		}
	}

	deps.MetricInc(deps.Metrics.Done)
	deps.EmitAudit(ctx, deps.Events.Done, true, 0, nil, func() map[string]string {
		if blacklisted {
			return map[string]string{"access_blacklisted": "true"}
		}
		return map[string]string{"access_blacklisted": "false"}
	})

	return LogoutResult{Blacklisted: blacklisted}
}

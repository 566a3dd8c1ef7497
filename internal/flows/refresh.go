package flows

import "context"

// RefreshFailureKind classifies refresh failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureInvalidToken
	RefreshFailurePrincipalNotFound
	RefreshFailureInactiveAccount
	RefreshFailureStoreUnavailable
	RefreshFailureInternal
)

// RefreshResult carries the fresh access token or a classified failure.
type RefreshResult struct {
	Failure     RefreshFailureKind
	Err         error
	PrincipalID int64
	AccessToken string
}

// RefreshMetrics carries metric IDs incremented by the refresh flow.
type RefreshMetrics struct {
	Success    int
	Failure    int
	StoreError int
}

// RefreshEvents carries audit event names used by the refresh flow.
type RefreshEvents struct {
	Success string
	Failure string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	LookupRefresh func(context.Context, string) (int64, error)
	FindByID      func(context.Context, int64) (PrincipalRecord, error)
	IssueAccess   func(PrincipalRecord) (string, error)

	IsNotFound    func(error) bool
	IsUnavailable func(error) bool

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, int64, error, func() map[string]string)

	Metrics RefreshMetrics
	Events  RefreshEvents
}

// RunRefresh exchanges a registered refresh token for a fresh access
// token. The registry entry is left untouched: the same refresh token
// keeps working until logout or expiry, and concurrent refreshes all
// succeed independently.
func RunRefresh(ctx context.Context, refreshToken string, deps RefreshDeps) RefreshResult {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, int64, error, func() map[string]string) {}
	}
	if deps.LookupRefresh == nil ||
		deps.FindByID == nil ||
		deps.IssueAccess == nil ||
		deps.IsNotFound == nil ||
		deps.IsUnavailable == nil {
		return RefreshResult{Failure: RefreshFailureInternal}
	}

	principalID, err := deps.LookupRefresh(ctx, refreshToken)
	if err != nil {
		switch {
		case deps.IsNotFound(err):
			deps.MetricInc(deps.Metrics.Failure)
			deps.EmitAudit(ctx, deps.Events.Failure, false, 0, err, func() map[string]string {
				return map[string]string{"reason": "token_not_registered"}
			})
			return RefreshResult{Failure: RefreshFailureInvalidToken, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return RefreshResult{Failure: RefreshFailureStoreUnavailable, Err: err}
		default:
			return RefreshResult{Failure: RefreshFailureInternal, Err: err}
		}
	}

	principal, err := deps.FindByID(ctx, principalID)
	if err != nil {
		switch {
		case deps.IsNotFound(err):
			deps.MetricInc(deps.Metrics.Failure)
			deps.EmitAudit(ctx, deps.Events.Failure, false, principalID, err, func() map[string]string {
				return map[string]string{"reason": "principal_gone"}
			})
			return RefreshResult{Failure: RefreshFailurePrincipalNotFound, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return RefreshResult{Failure: RefreshFailureStoreUnavailable, Err: err}
		default:
			return RefreshResult{Failure: RefreshFailureInternal, Err: err}
		}
	}

	if !principal.Active {
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, deps.Events.Failure, false, principalID, nil, func() map[string]string {
			return map[string]string{"reason": "inactive_account"}
		})
		return RefreshResult{Failure: RefreshFailureInactiveAccount, PrincipalID: principalID}
	}

	access, err := deps.IssueAccess(principal)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		return RefreshResult{Failure: RefreshFailureInternal, Err: err}
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.EmitAudit(ctx, deps.Events.Success, true, principalID, nil, nil)

	return RefreshResult{PrincipalID: principalID, AccessToken: access}
}

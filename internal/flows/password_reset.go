package flows

import (
	"context"
	"time"
)

// ResetFailureKind classifies password reset failures for root-level
// mapping.
type ResetFailureKind int

const (
	ResetFailureNone ResetFailureKind = iota
	ResetFailureDisabled
	ResetFailurePrincipalNotFound
	ResetFailureInactiveAccount
	ResetFailureInvalidToken
	ResetFailureStoreUnavailable
	ResetFailureInternal
)

// ResetRequestResult carries the issued reset token or a classified
// failure.
type ResetRequestResult struct {
	Failure ResetFailureKind
	Err     error
	Token   string
}

// ResetConfirmResult reports the outcome of a reset confirmation.
type ResetConfirmResult struct {
	Failure     ResetFailureKind
	Err         error
	PrincipalID int64
}

// ResetMetrics carries metric IDs incremented by the reset flows.
type ResetMetrics struct {
	Requested      int
	ConfirmSuccess int
	ConfirmFailure int
	StoreError     int
}

// ResetEvents carries audit event names used by the reset flows.
type ResetEvents struct {
	Requested string
	Confirmed string
	Rejected  string
}

// ResetDeps captures password reset flow dependencies.
type ResetDeps struct {
	Enabled  bool
	ResetTTL time.Duration

	FindByNameAndEmail func(context.Context, string, string) (PrincipalRecord, error)
	FindByEmail        func(context.Context, string) (PrincipalRecord, error)
	NewToken           func() string
	SaveReset          func(context.Context, string, string, time.Duration) error
	ConsumeReset       func(context.Context, string) (string, error)
	HashSecret         func(string) (string, error)
	UpdateCredential   func(context.Context, int64, string) error

	IsNotFound    func(error) bool
	IsResetMiss   func(error) bool
	IsUnavailable func(error) bool

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, int64, error, func() map[string]string)

	Metrics ResetMetrics
	Events  ResetEvents
}

// RunRequestPasswordReset verifies the name+email pair and mints a reset
// token bound to the email for the reset window. The token goes back to
// the caller, who owns delivery.
func RunRequestPasswordReset(ctx context.Context, name, email string, deps ResetDeps) ResetRequestResult {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, int64, error, func() map[string]string) {}
	}
	if !deps.Enabled {
		return ResetRequestResult{Failure: ResetFailureDisabled}
	}
	if deps.FindByNameAndEmail == nil ||
		deps.NewToken == nil ||
		deps.SaveReset == nil ||
		deps.IsNotFound == nil ||
		deps.IsUnavailable == nil {
		return ResetRequestResult{Failure: ResetFailureInternal}
	}

	principal, err := deps.FindByNameAndEmail(ctx, name, email)
	if err != nil {
		switch {
		case deps.IsNotFound(err):
			return ResetRequestResult{Failure: ResetFailurePrincipalNotFound, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return ResetRequestResult{Failure: ResetFailureStoreUnavailable, Err: err}
		default:
			return ResetRequestResult{Failure: ResetFailureInternal, Err: err}
		}
	}

	// A deactivated account must not be handed a working reset token.
	if !principal.Active {
		deps.EmitAudit(ctx, deps.Events.Rejected, false, principal.ID, nil, func() map[string]string {
			return map[string]string{"email": principal.Email, "reason": "inactive_account"}
		})
		return ResetRequestResult{Failure: ResetFailureInactiveAccount}
	}

	token := deps.NewToken()
	if err := deps.SaveReset(ctx, token, principal.Email, deps.ResetTTL); err != nil {
		if deps.IsUnavailable(err) {
			deps.MetricInc(deps.Metrics.StoreError)
			return ResetRequestResult{Failure: ResetFailureStoreUnavailable, Err: err}
		}
		return ResetRequestResult{Failure: ResetFailureInternal, Err: err}
	}

	deps.MetricInc(deps.Metrics.Requested)
	deps.EmitAudit(ctx, deps.Events.Requested, true, principal.ID, nil, func() map[string]string {
		return map[string]string{"email": principal.Email}
	})

	return ResetRequestResult{Token: token}
}

// RunConfirmPasswordReset consumes the token and replaces the stored
// credential hash. Consumption is atomic in the store, so of two
// concurrent confirmations exactly one wins.
func RunConfirmPasswordReset(ctx context.Context, token, newSecret string, deps ResetDeps) ResetConfirmResult {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, int64, error, func() map[string]string) {}
	}
	if !deps.Enabled {
		return ResetConfirmResult{Failure: ResetFailureDisabled}
	}
	if deps.ConsumeReset == nil ||
		deps.FindByEmail == nil ||
		deps.HashSecret == nil ||
		deps.UpdateCredential == nil ||
		deps.IsNotFound == nil ||
		deps.IsResetMiss == nil ||
		deps.IsUnavailable == nil {
		return ResetConfirmResult{Failure: ResetFailureInternal}
	}

	email, err := deps.ConsumeReset(ctx, token)
	if err != nil {
		switch {
		case deps.IsResetMiss(err):
			deps.MetricInc(deps.Metrics.ConfirmFailure)
			deps.EmitAudit(ctx, deps.Events.Rejected, false, 0, err, nil)
			return ResetConfirmResult{Failure: ResetFailureInvalidToken, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return ResetConfirmResult{Failure: ResetFailureStoreUnavailable, Err: err}
		default:
			return ResetConfirmResult{Failure: ResetFailureInternal, Err: err}
		}
	}

	principal, err := deps.FindByEmail(ctx, email)
	if err != nil {
		switch {
		case deps.IsNotFound(err):
			deps.MetricInc(deps.Metrics.ConfirmFailure)
			deps.EmitAudit(ctx, deps.Events.Rejected, false, 0, err, func() map[string]string {
				return map[string]string{"reason": "principal_gone"}
			})
			return ResetConfirmResult{Failure: ResetFailurePrincipalNotFound, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return ResetConfirmResult{Failure: ResetFailureStoreUnavailable, Err: err}
		default:
			return ResetConfirmResult{Failure: ResetFailureInternal, Err: err}
		}
	}

	hash, err := deps.HashSecret(newSecret)
	if err != nil {
		deps.MetricInc(deps.Metrics.ConfirmFailure)
		return ResetConfirmResult{Failure: ResetFailureInternal, Err: err}
	}

	if err := deps.UpdateCredential(ctx, principal.ID, hash); err != nil {
		switch {
		case deps.IsNotFound(err):
			deps.MetricInc(deps.Metrics.ConfirmFailure)
			return ResetConfirmResult{Failure: ResetFailurePrincipalNotFound, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return ResetConfirmResult{Failure: ResetFailureStoreUnavailable, Err: err}
		default:
			return ResetConfirmResult{Failure: ResetFailureInternal, Err: err}
		}
	}

	deps.MetricInc(deps.Metrics.ConfirmSuccess)
	deps.EmitAudit(ctx, deps.Events.Confirmed, true, principal.ID, nil, nil)

	return ResetConfirmResult{PrincipalID: principal.ID}
}

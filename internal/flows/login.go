package flows

import "context"

// LoginFailureKind classifies login failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailurePrincipalNotFound
	LoginFailureInactiveAccount
	LoginFailureInvalidCredential
	LoginFailureStoreUnavailable
	LoginFailureInternal
)

// LoginResult carries either the issued token pair or a classified failure.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	PrincipalID  int64
	AccessToken  string
	RefreshToken string
}

// LoginMetrics carries metric IDs incremented by the login flow.
type LoginMetrics struct {
	Success    int
	Failure    int
	StoreError int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	Success string
	Failure string
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	FindByEmail      func(context.Context, string) (PrincipalRecord, error)
	VerifyCredential func(secret, hash string) bool
	IssueAccess      func(PrincipalRecord) (string, error)
	IssueRefresh     func(context.Context, int64) (string, error)

	IsNotFound    func(error) bool
	IsUnavailable func(error) bool

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, int64, error, func() map[string]string)

	Metrics LoginMetrics
	Events  LoginEvents
}

// RunLogin authenticates the principal and issues a token pair. The two
// store writes (refresh registration happens inside IssueRefresh, the
// access token needs none) are not transactional with anything else; a
// failure after partial effects leaves at most an orphaned registry entry
// that Redis expiry collects.
func RunLogin(ctx context.Context, email, secret string, deps LoginDeps) LoginResult {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, int64, error, func() map[string]string) {}
	}
	if deps.FindByEmail == nil ||
		deps.VerifyCredential == nil ||
		deps.IssueAccess == nil ||
		deps.IssueRefresh == nil ||
		deps.IsNotFound == nil ||
		deps.IsUnavailable == nil {
		return LoginResult{Failure: LoginFailureInternal}
	}

	principal, err := deps.FindByEmail(ctx, email)
	if err != nil {
		switch {
		case deps.IsNotFound(err):
			deps.MetricInc(deps.Metrics.Failure)
			deps.EmitAudit(ctx, deps.Events.Failure, false, 0, err, func() map[string]string {
				return map[string]string{"email": email, "reason": "principal_not_found"}
			})
			return LoginResult{Failure: LoginFailurePrincipalNotFound, Err: err}
		case deps.IsUnavailable(err):
			deps.MetricInc(deps.Metrics.StoreError)
			return LoginResult{Failure: LoginFailureStoreUnavailable, Err: err}
		default:
			return LoginResult{Failure: LoginFailureInternal, Err: err}
		}
	}

	// The active flag is checked before the secret: a deactivated account
	// reports InactiveAccount no matter what credential was presented.
	if !principal.Active {
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, deps.Events.Failure, false, principal.ID, nil, func() map[string]string {
			return map[string]string{"email": email, "reason": "inactive_account"}
		})
		return LoginResult{Failure: LoginFailureInactiveAccount, PrincipalID: principal.ID}
	}

	if secret == "" || !deps.VerifyCredential(secret, principal.CredentialHash) {
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, deps.Events.Failure, false, principal.ID, nil, func() map[string]string {
			return map[string]string{"email": email, "reason": "credential_mismatch"}
		})
		return LoginResult{Failure: LoginFailureInvalidCredential, PrincipalID: principal.ID}
	}

	access, err := deps.IssueAccess(principal)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		return LoginResult{Failure: LoginFailureInternal, Err: err}
	}

	refresh, err := deps.IssueRefresh(ctx, principal.ID)
	if err != nil {
		if deps.IsUnavailable(err) {
			deps.MetricInc(deps.Metrics.StoreError)
			return LoginResult{Failure: LoginFailureStoreUnavailable, Err: err}
		}
		deps.MetricInc(deps.Metrics.Failure)
		return LoginResult{Failure: LoginFailureInternal, Err: err}
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.EmitAudit(ctx, deps.Events.Success, true, principal.ID, nil, func() map[string]string {
		return map[string]string{"email": email}
	})

	return LoginResult{
		PrincipalID:  principal.ID,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

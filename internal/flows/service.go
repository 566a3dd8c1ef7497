package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Validate.Verify != nil
}

func (s Service) Login(ctx context.Context, email, secret string) LoginResult {
	return RunLogin(ctx, email, secret, s.deps.Login)
}

func (s Service) Refresh(ctx context.Context, refreshToken string) RefreshResult {
	return RunRefresh(ctx, refreshToken, s.deps.Refresh)
}

func (s Service) Logout(ctx context.Context, accessToken, refreshToken string) LogoutResult {
	return RunLogout(ctx, accessToken, refreshToken, s.deps.Logout)
}

func (s Service) Validate(ctx context.Context, accessToken string) ValidateResult {
	return RunValidate(ctx, accessToken, s.deps.Validate)
}

func (s Service) RequestPasswordReset(ctx context.Context, name, email string) ResetRequestResult {
	return RunRequestPasswordReset(ctx, name, email, s.deps.Reset)
}

func (s Service) ConfirmPasswordReset(ctx context.Context, token, newSecret string) ResetConfirmResult {
	return RunConfirmPasswordReset(ctx, token, newSecret, s.deps.Reset)
}

package lectureauth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ktnu/lectureauth/internal/flows"
	"github.com/ktnu/lectureauth/jwt"
	"github.com/ktnu/lectureauth/session"
)

// Builder assembles an Engine. Configure, then Build exactly once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	provider  PrincipalProvider
	hasher    Hasher
	auditSink AuditSink

	built bool
}

// New returns a builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithPrincipalProvider(p PrincipalProvider) *Builder {
	b.provider = p
	return b
}

func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires the stores and flow
// dependencies, and returns a ready engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.provider == nil {
		return nil, errors.New("principal provider required")
	}
	if b.hasher == nil {
		return nil, errors.New("hasher required")
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Secret: cloneBytes(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		Leeway: cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(b.redis, cfg.Session.RedisPrefix)
	resets := newResetCredentialStore(b.redis, cfg.Session.RedisPrefix)
	issuer := NewIssuer(codec, sessions, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	engine := &Engine{
		config:   cfg,
		codec:    codec,
		sessions: sessions,
		resets:   resets,
		issuer:   issuer,
		provider: b.provider,
		hasher:   b.hasher,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(),
	}

	engine.flows = flows.New(b.flowDeps(engine))

	b.built = true

	return engine, nil
}

// flowDeps builds the closure wiring handed to internal/flows. The
// closures translate between root types and flow-local records so the
// flow package never imports this one.
func (b *Builder) flowDeps(e *Engine) flows.Deps {
	isNotFound := func(err error) bool {
		return errors.Is(err, session.ErrNotFound) || errors.Is(err, ErrPrincipalNotFound)
	}
	isUnavailable := func(err error) bool {
		return errors.Is(err, session.ErrUnavailable) ||
			errors.Is(err, errResetUnavailable) ||
			errors.Is(err, ErrStoreUnavailable)
	}
	isResetMiss := func(err error) bool {
		return errors.Is(err, errResetNotFound)
	}

	findByEmail := func(ctx context.Context, email string) (flows.PrincipalRecord, error) {
		p, err := e.provider.FindByEmail(ctx, email)
		return toRecord(p), err
	}
	findByID := func(ctx context.Context, id int64) (flows.PrincipalRecord, error) {
		p, err := e.provider.FindByID(ctx, id)
		return toRecord(p), err
	}
	findByNameAndEmail := func(ctx context.Context, name, email string) (flows.PrincipalRecord, error) {
		p, err := e.provider.FindByNameAndEmail(ctx, name, email)
		return toRecord(p), err
	}
	issueAccess := func(rec flows.PrincipalRecord) (string, error) {
		return e.issuer.IssueAccess(fromRecord(rec))
	}

	return flows.Deps{
		Login: flows.LoginDeps{
			FindByEmail:      findByEmail,
			VerifyCredential: e.hasher.Verify,
			IssueAccess:      issueAccess,
			IssueRefresh:     e.issuer.IssueRefresh,
			IsNotFound:       isNotFound,
			IsUnavailable:    isUnavailable,
			MetricInc:        e.metricInc,
			EmitAudit:        e.emitAudit,
			Metrics: flows.LoginMetrics{
				Success:    int(MetricLoginSuccess),
				Failure:    int(MetricLoginFailure),
				StoreError: int(MetricStoreError),
			},
			Events: flows.LoginEvents{
				Success: AuditLoginSuccess,
				Failure: AuditLoginFailure,
			},
		},
		Refresh: flows.RefreshDeps{
			LookupRefresh: e.sessions.LookupRefresh,
			FindByID:      findByID,
			IssueAccess:   issueAccess,
			IsNotFound:    isNotFound,
			IsUnavailable: isUnavailable,
			MetricInc:     e.metricInc,
			EmitAudit:     e.emitAudit,
			Metrics: flows.RefreshMetrics{
				Success:    int(MetricRefreshSuccess),
				Failure:    int(MetricRefreshFailure),
				StoreError: int(MetricStoreError),
			},
			Events: flows.RefreshEvents{
				Success: AuditRefreshSuccess,
				Failure: AuditRefreshFailure,
			},
		},
		Logout: flows.LogoutDeps{
			AccessRemaining: e.accessRemaining,
			Blacklist:       e.sessions.Blacklist,
			RevokeRefresh:   e.sessions.RevokeRefresh,
			IsUnavailable:   isUnavailable,
			MetricInc:       e.metricInc,
			EmitAudit:       e.emitAudit,
			Metrics: flows.LogoutMetrics{
				Done:       int(MetricLogout),
				StoreError: int(MetricStoreError),
			},
			Events: flows.LogoutEvents{
				Done: AuditLogout,
			},
		},
		Validate: flows.ValidateDeps{
			IsBlacklisted: e.sessions.IsBlacklisted,
			Verify:        e.verifyIdentity,
			IsExpired: func(err error) bool {
				return errors.Is(err, jwt.ErrExpired)
			},
			IsUnavailable: isUnavailable,
			MetricInc:     e.metricInc,
			EmitAudit:     e.emitAudit,
			Metrics: flows.ValidateMetrics{
				BlacklistHit: int(MetricBlacklistHit),
				StoreError:   int(MetricStoreError),
			},
			Events: flows.ValidateEvents{
				BlacklistHit: AuditBlacklistHit,
			},
		},
		Reset: flows.ResetDeps{
			Enabled:            b.config.PasswordReset.Enabled,
			ResetTTL:           b.config.PasswordReset.ResetTTL,
			FindByNameAndEmail: findByNameAndEmail,
			FindByEmail:        findByEmail,
			NewToken:           uuid.NewString,
			SaveReset:          e.resets.Save,
			ConsumeReset:       e.resets.Consume,
			HashSecret:         e.hasher.Hash,
			UpdateCredential:   e.provider.UpdateCredentialHash,
			IsNotFound:         isNotFound,
			IsResetMiss:        isResetMiss,
			IsUnavailable:      isUnavailable,
			MetricInc:          e.metricInc,
			EmitAudit:          e.emitAudit,
			Metrics: flows.ResetMetrics{
				Requested:      int(MetricResetRequested),
				ConfirmSuccess: int(MetricResetConfirmSuccess),
				ConfirmFailure: int(MetricResetConfirmFailure),
				StoreError:     int(MetricStoreError),
			},
			Events: flows.ResetEvents{
				Requested: AuditResetRequested,
				Confirmed: AuditResetConfirmed,
				Rejected:  AuditResetRejected,
			},
		},
	}
}

func toRecord(p Principal) flows.PrincipalRecord {
	return flows.PrincipalRecord{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		CredentialHash: p.CredentialHash,
		Role:           p.Role,
		Active:         p.Active,
	}
}

func fromRecord(rec flows.PrincipalRecord) Principal {
	return Principal{
		ID:             rec.ID,
		Name:           rec.Name,
		Email:          rec.Email,
		CredentialHash: rec.CredentialHash,
		Role:           rec.Role,
		Active:         rec.Active,
	}
}

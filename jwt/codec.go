// Package jwt signs and verifies the engine's HS256 access tokens.
// Refresh tokens are not JWTs and never pass through here.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

var (
	// ErrExpired reports a structurally valid, correctly signed token past
	// its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid reports any other verification failure: bad signature,
	// malformed structure, wrong algorithm, wrong token type.
	ErrInvalid = errors.New("token invalid")
)

// Config holds the immutable codec parameters.
type Config struct {
	// Secret is the HS256 signing key, minimum 32 bytes.
	Secret []byte
	// Issuer is stamped into iss when non-empty.
	Issuer string
	// Leeway tolerates clock skew on expiry checks.
	Leeway time.Duration
}

// Claims is the access token payload. Subject carries the principal id in
// decimal; a fresh jti per token keeps otherwise identical issuances
// distinct.
type Claims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// PrincipalID parses the subject claim.
func (c *Claims) PrincipalID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric subject", ErrInvalid)
	}
	return id, nil
}

// RemainingTTL reports how long the token stays valid from now. Zero or
// negative means already expired.
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// Codec signs and verifies HS256 access tokens. Immutable after
// construction, safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewCodec validates the config and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("jwt: secret must be at least 32 bytes")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("jwt: leeway must not be negative")
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Codec{
		secret: secret,
		issuer: cfg.Issuer,
		leeway: cfg.Leeway,
		now:    time.Now,
	}, nil
}

// Issue signs an access token for the principal with the given lifetime.
func (c *Codec) Issue(principalID int64, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("jwt: ttl must be positive")
	}

	now := c.now()
	claims := &Claims{
		Role: role,
		Type: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principalID, 10),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: signing failed: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure, and expiry. Expiry failures return
// ErrExpired; everything else returns ErrInvalid.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims, err := c.parse(token, jwt.WithLeeway(c.leeway), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	return claims, nil
}

// ParseAllowExpired verifies the signature but not expiry. Logout uses it
// to compute the remaining blacklist window of a possibly stale token.
func (c *Codec) ParseAllowExpired(token string) (*Claims, error) {
	claims, err := c.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalid
	}
	return claims, nil
}

func (c *Codec) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Type != accessTokenType {
		return nil, ErrInvalid
	}
	return claims, nil
}

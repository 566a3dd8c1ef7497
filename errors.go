package lectureauth

import "errors"

// Kind is the closed classification of credential failures. Every error
// the engine returns for a classified failure carries exactly one kind;
// callers branch on KindOf rather than string matching.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPrincipalNotFound
	KindInactiveAccount
	KindInvalidCredential
	KindInvalidRefreshToken
	KindBlacklisted
	KindTokenExpired
	KindInvalidSignature
	KindInvalidResetToken
	KindStoreUnavailable
)

var kindNames = [...]string{
	KindUnknown:             "unknown",
	KindPrincipalNotFound:   "principal_not_found",
	KindInactiveAccount:     "inactive_account",
	KindInvalidCredential:   "invalid_credential",
	KindInvalidRefreshToken: "invalid_refresh_token",
	KindBlacklisted:         "blacklisted",
	KindTokenExpired:        "token_expired",
	KindInvalidSignature:    "invalid_signature",
	KindInvalidResetToken:   "invalid_reset_token",
	KindStoreUnavailable:    "store_unavailable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Error is the engine's failure type. Two Errors match under errors.Is
// when their kinds are equal, so a wrapped sentinel still compares equal
// to the exported var.
type Error struct {
	Kind    Kind
	Message string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches by kind. KindUnknown never matches anything, so plain
// errors stay outside the taxonomy.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind != KindUnknown && e.Kind == t.Kind
}

// The sentinel for every classified failure. These are what errors.Is
// targets look like; operations may return wrapped variants carrying the
// underlying cause.
var (
	ErrPrincipalNotFound   = &Error{Kind: KindPrincipalNotFound, Message: "lectureauth: principal not found"}
	ErrInactiveAccount     = &Error{Kind: KindInactiveAccount, Message: "lectureauth: account is deactivated"}
	ErrInvalidCredential   = &Error{Kind: KindInvalidCredential, Message: "lectureauth: invalid credential"}
	ErrInvalidRefreshToken = &Error{Kind: KindInvalidRefreshToken, Message: "lectureauth: refresh token not registered"}
	ErrBlacklisted         = &Error{Kind: KindBlacklisted, Message: "lectureauth: access token revoked"}
	ErrTokenExpired        = &Error{Kind: KindTokenExpired, Message: "lectureauth: access token expired"}
	ErrInvalidSignature    = &Error{Kind: KindInvalidSignature, Message: "lectureauth: access token invalid"}
	ErrInvalidResetToken   = &Error{Kind: KindInvalidResetToken, Message: "lectureauth: reset token invalid"}
	ErrStoreUnavailable    = &Error{Kind: KindStoreUnavailable, Message: "lectureauth: session store unavailable"}
)

// KindOf extracts the failure kind, or KindUnknown for nil and
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Retryable reports whether the failure is transient. Only a store
// outage qualifies; every other kind is a verdict about the credentials
// themselves and retrying the same call cannot change it.
func Retryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}

func kindError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

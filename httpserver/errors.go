package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	lectureauth "github.com/ktnu/lectureauth"
)

// ErrorResponse is the uniform error payload. Message is always a
// client-safe phrase; underlying causes stay in the logs.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Status    int       `json:"status"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{
		Code:      code,
		Message:   message,
		Status:    status,
		Path:      c.Request().URL.Path,
		Timestamp: time.Now(),
	})
}

// writeEngineError maps every engine failure kind to a response. The
// switch is exhaustive over the closed taxonomy; anything unclassified is
// an internal error by definition.
func writeEngineError(c echo.Context, err error) error {
	kind := lectureauth.KindOf(err)
	switch kind {
	case lectureauth.KindPrincipalNotFound:
		return writeError(c, http.StatusNotFound, kind.String(), "account not found")
	case lectureauth.KindInactiveAccount:
		return writeError(c, http.StatusForbidden, kind.String(), "account is deactivated")
	case lectureauth.KindInvalidCredential:
		return writeError(c, http.StatusUnauthorized, kind.String(), "invalid email or password")
	case lectureauth.KindInvalidRefreshToken:
		return writeError(c, http.StatusUnauthorized, kind.String(), "refresh token is not valid")
	case lectureauth.KindBlacklisted:
		return writeError(c, http.StatusUnauthorized, kind.String(), "token has been revoked")
	case lectureauth.KindTokenExpired:
		return writeError(c, http.StatusUnauthorized, kind.String(), "token has expired")
	case lectureauth.KindInvalidSignature:
		return writeError(c, http.StatusUnauthorized, kind.String(), "token is not valid")
	case lectureauth.KindInvalidResetToken:
		return writeError(c, http.StatusUnauthorized, kind.String(), "reset token is not valid")
	case lectureauth.KindStoreUnavailable:
		// Retryable: the caller should back off and try again.
		return writeError(c, http.StatusServiceUnavailable, kind.String(), "service temporarily unavailable")
	default:
		return writeError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

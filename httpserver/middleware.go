package httpserver

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	lectureauth "github.com/ktnu/lectureauth"
	"github.com/ktnu/lectureauth/logging"
)

const identityContextKey = "lectureauth.identity"

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		s.logger.Info("request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", c.RealIP(),
		)
		return err
	}
}

// annotateContext threads the logger and the caller's address into the
// request context so engine audit events can record the IP.
func (s *Server) annotateContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ctx = logging.IntoContext(ctx, s.logger)
		ctx = lectureauth.WithClientIP(ctx, c.RealIP())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// resolveIdentity validates the access token when one is present. Any
// failure leaves the request anonymous; requireIdentity is the only
// place a 401 comes from.
func (s *Server) resolveIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := extractToken(c)
		if !ok {
			return next(c)
		}
		identity, err := s.engine.ValidateAccess(c.Request().Context(), token)
		if err != nil {
			return next(c)
		}
		c.Set(identityContextKey, identity)
		return next(c)
	}
}

func (s *Server) requireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if identityFrom(c) == nil {
			return writeError(c, 401, "unauthenticated", "authentication required")
		}
		return next(c)
	}
}

func identityFrom(c echo.Context) *lectureauth.AuthResult {
	identity, _ := c.Get(identityContextKey).(*lectureauth.AuthResult)
	return identity
}

func extractToken(c echo.Context) (string, bool) {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	auth := c.Request().Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return token, true
	}
	return "", false
}

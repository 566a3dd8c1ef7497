// Package httpserver is the echo perimeter over the credential engine:
// the auth and password routes, the cookie carriers, and the exhaustive
// mapping from engine failure kinds to HTTP error payloads.
package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	lectureauth "github.com/ktnu/lectureauth"
	"github.com/ktnu/lectureauth/memberstore"
)

// Server wires the engine and member store behind the public routes.
type Server struct {
	engine  *lectureauth.Engine
	members *memberstore.Store
	hasher  lectureauth.Hasher
	cookies CookieConfig
	logger  *slog.Logger
	echo    *echo.Echo
}

// New builds the route tree. The identity resolver runs on every
// request; only the routes that call requireIdentity reject anonymous
// callers.
func New(engine *lectureauth.Engine, members *memberstore.Store, hasher lectureauth.Hasher, cookies CookieConfig, logger *slog.Logger) *Server {
	s := &Server{
		engine:  engine,
		members: members,
		hasher:  hasher,
		cookies: cookies,
		logger:  logger,
		echo:    echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(echomw.Recover())
	s.echo.Use(s.requestLogger)
	s.echo.Use(s.annotateContext)
	s.echo.Use(s.resolveIdentity)

	auth := s.echo.Group("/api/auth")
	auth.POST("/register", s.handleRegister)
	auth.POST("/login", s.handleLogin)
	auth.POST("/logout", s.handleLogout)
	auth.POST("/refresh", s.handleRefresh)

	pw := s.echo.Group("/api/password")
	pw.POST("/verify", s.handlePasswordVerify)
	pw.POST("/reset", s.handlePasswordReset)

	member := s.echo.Group("/api/members")
	member.GET("/me", s.handleMe, s.requireIdentity)

	return s
}

// Start blocks serving on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

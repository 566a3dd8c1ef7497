package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ktnu/lectureauth/memberstore"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type memberResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "malformed request body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return writeError(c, http.StatusBadRequest, "bad_request", "username, email and password are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}

	member, err := s.members.Create(c.Request().Context(), req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, memberstore.ErrDuplicateEmail) {
			return writeError(c, http.StatusConflict, "duplicate_email", "email already registered")
		}
		return writeEngineError(c, err)
	}

	return c.JSON(http.StatusCreated, memberResponse{
		ID:       member.ID,
		Username: member.Username,
		Email:    member.Email,
		Role:     member.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "malformed request body")
	}

	pair, err := s.engine.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeEngineError(c, err)
	}

	c.SetCookie(s.cookies.accessCookie(pair.AccessToken))
	c.SetCookie(s.cookies.refreshCookie(pair.RefreshToken))

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// handleLogout revokes whatever credentials the request carries. Both
// cookies are cleared unconditionally; a missing or stale access token
// does not fail the call.
func (s *Server) handleLogout(c echo.Context) error {
	accessToken, _ := extractToken(c)
	refreshToken := ""
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	if err := s.engine.Logout(c.Request().Context(), accessToken, refreshToken); err != nil {
		return writeEngineError(c, err)
	}

	c.SetCookie(s.cookies.expiredCookie(AccessTokenCookie))
	c.SetCookie(s.cookies.expiredCookie(RefreshTokenCookie))

	return c.NoContent(http.StatusNoContent)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return writeError(c, http.StatusBadRequest, "bad_request", "refresh token is required")
	}

	access, err := s.engine.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return writeEngineError(c, err)
	}

	c.SetCookie(s.cookies.accessCookie(access))

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: access})
}

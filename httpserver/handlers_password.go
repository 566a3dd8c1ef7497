package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ResetTokenHeader carries the reset token on the confirm call, and the
// verify response echoes the freshly minted token in the same header.
const ResetTokenHeader = "Reset-Token"

type passwordVerifyRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type passwordVerifyResponse struct {
	ResetToken string `json:"reset_token"`
}

func (s *Server) handlePasswordVerify(c echo.Context) error {
	var req passwordVerifyRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "malformed request body")
	}
	if req.Username == "" || req.Email == "" {
		return writeError(c, http.StatusBadRequest, "bad_request", "username and email are required")
	}

	token, err := s.engine.RequestPasswordReset(c.Request().Context(), req.Username, req.Email)
	if err != nil {
		return writeEngineError(c, err)
	}

	c.Response().Header().Set(ResetTokenHeader, token)
	return c.JSON(http.StatusOK, passwordVerifyResponse{ResetToken: token})
}

type passwordResetRequest struct {
	NewPassword string `json:"new_password"`
}

func (s *Server) handlePasswordReset(c echo.Context) error {
	token := c.Request().Header.Get(ResetTokenHeader)
	if token == "" {
		return writeError(c, http.StatusBadRequest, "bad_request", "Reset-Token header is required")
	}

	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "malformed request body")
	}
	if req.NewPassword == "" {
		return writeError(c, http.StatusBadRequest, "bad_request", "new_password is required")
	}

	if err := s.engine.ResetPassword(c.Request().Context(), token, req.NewPassword); err != nil {
		return writeEngineError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

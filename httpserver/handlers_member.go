package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleMe(c echo.Context) error {
	identity := identityFrom(c)

	principal, err := s.members.FindByID(c.Request().Context(), identity.PrincipalID)
	if err != nil {
		return writeEngineError(c, err)
	}

	return c.JSON(http.StatusOK, memberResponse{
		ID:       principal.ID,
		Username: principal.Name,
		Email:    principal.Email,
		Role:     principal.Role,
	})
}

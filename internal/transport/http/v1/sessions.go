package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voyago/voyago/internal/domain"
)

// CreateSession creates a new session.
// POST /sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.service.CreateSession(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, session)
}

// ListSessions returns session summaries, newest first.
// GET /sessions
func (h *Handler) ListSessions(c echo.Context) error {
	ctx := c.Request().Context()

	sessions, err := h.service.ListSessions(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, sessions)
}

// GetSession returns a full session.
// GET /sessions/:id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.service.GetSession(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, session)
}

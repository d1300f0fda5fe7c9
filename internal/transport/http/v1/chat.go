package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voyago/voyago/internal/domain"
)

// Chat drives one turn of conversation.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sessionId is required"})
	}

	if !h.service.ChatAvailable() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "chat backend not configured"})
	}

	resp, err := h.service.Chat(ctx, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "chat backend not configured"})
		}
		log.Printf("ERROR: chat turn failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process message"})
	}

	return c.JSON(http.StatusOK, resp)
}

// generateTitleRequest is the inbound body of POST /generate-title.
type generateTitleRequest struct {
	History []domain.Message `json:"history"`
}

// GenerateTitle produces a title for an ad-hoc conversation history,
// independent of persisted sessions.
// POST /generate-title
func (h *Handler) GenerateTitle(c echo.Context) error {
	ctx := c.Request().Context()

	var req generateTitleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if !h.service.ChatAvailable() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "chat backend not configured"})
	}

	title, err := h.service.GenerateTitle(ctx, req.History)
	if err != nil {
		log.Printf("WARN: title generation failed: %v", err)
		return c.JSON(http.StatusOK, map[string]interface{}{"title": nil})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"title": title})
}

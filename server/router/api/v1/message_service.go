package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatodo/chatodo/plugin/timeparse"
)

// MessageRequest is an inbound chat message. Private marks direct
// conversations; group chats leave it false.
type MessageRequest struct {
	ConversationKey string `json:"conversation_key"`
	Text            string `json:"text"`
	Private         bool   `json:"private"`
}

// MessageResponse carries the dispatcher's reply. Reply is empty when the
// message was not a todo command.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// HandleMessage runs one chat message through the command dispatcher.
// POST /api/v1/message
func (s *APIV1Service) HandleMessage(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ConversationKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "conversation_key is required"})
	}

	reply, err := s.Dispatcher.Dispatch(c.Request().Context(), req.ConversationKey, req.Text, req.Private)
	if err != nil {
		slog.Warn("message dispatch failed", "key", req.ConversationKey, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to handle message"})
	}
	return c.JSON(http.StatusOK, MessageResponse{Reply: reply})
}

// ParseRequest is a raw time expression to resolve.
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse reports the resolved instant, or null when the text has no
// recognizable time expression.
type ParseResponse struct {
	Parsed   bool    `json:"parsed"`
	Time     *string `json:"time"`
	Relative string  `json:"relative,omitempty"`
}

// HandleParse resolves a Chinese time expression against the current time.
// POST /api/v1/parse
func (s *APIV1Service) HandleParse(c echo.Context) error {
	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	now := time.Now()
	parsed, ok := timeparse.Parse(req.Text, now)
	if !ok {
		return c.JSON(http.StatusOK, ParseResponse{Parsed: false})
	}
	formatted := parsed.Format(time.RFC3339)
	return c.JSON(http.StatusOK, ParseResponse{
		Parsed:   true,
		Time:     &formatted,
		Relative: timeparse.FormatRelative(&parsed, now),
	})
}

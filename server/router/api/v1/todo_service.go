package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatodo/chatodo/store"
)

// TodoResponse is the JSON shape of a todo item. Instants are RFC 3339
// strings, null when unset.
type TodoResponse struct {
	ID              string  `json:"id"`
	ConversationKey string  `json:"conversation_key"`
	Content         string  `json:"content"`
	CreatedAt       string  `json:"created_at"`
	Deadline        *string `json:"deadline"`
	Done            bool    `json:"done"`
	DoneAt          *string `json:"done_at"`
	Reminded        bool    `json:"reminded"`
	ReminderAt      *string `json:"reminder_at"`
}

func convertTodo(t *store.Todo) TodoResponse {
	return TodoResponse{
		ID:              t.ID,
		ConversationKey: t.ConversationKey,
		Content:         t.Content,
		CreatedAt:       time.Unix(t.CreatedTs, 0).Format(time.RFC3339),
		Deadline:        rfc3339Ptr(t.Deadline()),
		Done:            t.Done,
		DoneAt:          rfc3339Ptr(t.DoneAt()),
		Reminded:        t.Reminded,
		ReminderAt:      rfc3339Ptr(t.Reminder()),
	}
}

func rfc3339Ptr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// ListTodos returns a conversation's todos, oldest first. Completed items
// are included with ?include_done=true.
// GET /api/v1/conversations/:key/todos
func (s *APIV1Service) ListTodos(c echo.Context) error {
	key := c.Param("key")
	includeDone := c.QueryParam("include_done") == "true"

	items, err := s.TodoService.List(c.Request().Context(), key, includeDone)
	if err != nil {
		slog.Warn("failed to list todos", "key", key, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list todos"})
	}

	result := make([]TodoResponse, 0, len(items))
	for _, item := range items {
		result = append(result, convertTodo(item))
	}
	return c.JSON(http.StatusOK, result)
}

// CreateTodoRequest is free text in the same "时间 内容" shape the chat
// command accepts.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// CreateTodo adds a todo from free text, extracting a leading time
// expression as the deadline.
// POST /api/v1/conversations/:key/todos
func (s *APIV1Service) CreateTodo(c echo.Context) error {
	key := c.Param("key")

	var req CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	item, err := s.TodoService.Add(c.Request().Context(), key, req.Text)
	if err != nil {
		slog.Warn("failed to create todo", "key", key, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create todo"})
	}
	return c.JSON(http.StatusOK, convertTodo(item))
}

// MarkTodoDone completes a todo by id.
// POST /api/v1/todos/:id/done
func (s *APIV1Service) MarkTodoDone(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	item, err := s.Store.GetTodo(ctx, &store.FindTodo{ID: &id})
	if err != nil {
		slog.Warn("failed to get todo", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get todo"})
	}
	if item == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "todo not found"})
	}

	done := true
	doneTs := time.Now().Unix()
	if err := s.Store.UpdateTodo(ctx, &store.UpdateTodo{ID: id, Done: &done, DoneTs: &doneTs}); err != nil {
		slog.Warn("failed to update todo", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update todo"})
	}
	item.Done = true
	item.DoneTs = &doneTs
	return c.JSON(http.StatusOK, convertTodo(item))
}

// DeleteTodo removes a todo by id.
// DELETE /api/v1/todos/:id
func (s *APIV1Service) DeleteTodo(c echo.Context) error {
	id := c.Param("id")

	count, err := s.Store.DeleteTodos(c.Request().Context(), &store.DeleteTodo{ID: &id})
	if err != nil {
		slog.Warn("failed to delete todo", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete todo"})
	}
	if count == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "todo not found"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

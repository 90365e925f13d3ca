// Package v1 exposes the HTTP surface: the message webhook that feeds the
// chat dispatcher, a standalone time-parse endpoint, and a small JSON API
// over stored todos.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/chatodo/chatodo/internal/profile"
	"github.com/chatodo/chatodo/server/bot"
	"github.com/chatodo/chatodo/server/service/todo"
	"github.com/chatodo/chatodo/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	TodoService *todo.Service
	Dispatcher  *bot.Dispatcher
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, todoService *todo.Service, dispatcher *bot.Dispatcher) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		TodoService: todoService,
		Dispatcher:  dispatcher,
	}
}

// Register wires the routes into the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.Use(middleware.Recover())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": s.Profile.Version})
	})

	apiV1 := echoServer.Group("/api/v1")
	apiV1.POST("/message", s.HandleMessage)
	apiV1.POST("/parse", s.HandleParse)
	apiV1.GET("/conversations/:key/todos", s.ListTodos)
	apiV1.POST("/conversations/:key/todos", s.CreateTodo)
	apiV1.POST("/todos/:id/done", s.MarkTodoDone)
	apiV1.DELETE("/todos/:id", s.DeleteTodo)
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/dayplan/internal/store"
)

// Server wires the HTTP surface to the stores. One instance is built at
// process start and shared; all state lives in the database.
type Server struct {
	db       *sqlx.DB
	todos    *store.TodoStore
	subtasks *store.SubtaskStore
	router   *gin.Engine
}

// New builds the server with its middleware and routes registered.
func New(db *sqlx.DB) *Server {
	s := &Server{
		db:       db,
		todos:    store.NewTodoStore(db),
		subtasks: store.NewSubtaskStore(db),
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS())

	router.GET("/health", s.handleHealth)

	todos := router.Group("/todos")
	{
		todos.GET("", s.handleListTodos)
		todos.POST("", s.handleCreateTodo)

		// Static segment must be registered alongside the :id parameter;
		// gin resolves /todos/reorder before /todos/:id.
		todos.PUT("/reorder", s.handleReorderTodos)

		todos.PUT("/:id", IntParams("id"), s.handleUpdateTodo)
		todos.PATCH("/:id", IntParams("id"), s.handleUpdateTodo)
		todos.DELETE("/:id", IntParams("id"), s.handleDeleteTodo)

		todos.POST("/:id/subtasks", IntParams("id"), s.handleCreateSubtask)
		todos.PUT("/:id/subtasks/reorder", IntParams("id"), s.handleReorderSubtasks)
		todos.PUT("/:id/subtasks/:subtaskId", IntParams("id", "subtaskId"), s.handleUpdateSubtask)
		todos.PATCH("/:id/subtasks/:subtaskId", IntParams("id", "subtaskId"), s.handleUpdateSubtask)
		todos.DELETE("/:id/subtasks/:subtaskId", IntParams("id", "subtaskId"), s.handleDeleteSubtask)
	}

	s.router = router
	return s
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

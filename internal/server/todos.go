package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/dayplan/internal/model"
	"github.com/eleven-am/dayplan/internal/store"
)

type createTodoRequest struct {
	Text string      `json:"text"`
	Date *model.Date `json:"date"`
}

type updateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type reorderTodosRequest struct {
	Todos []store.OrderUpdate `json:"todos"`
}

// GET /todos?date=YYYY-MM-DD
func (s *Server) handleListTodos(c *gin.Context) {
	var date *model.Date
	if raw := c.Query("date"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: must be YYYY-MM-DD"})
			return
		}
		date = &parsed
	}

	todos, err := s.todos.List(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// POST /todos
func (s *Server) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	todo, err := s.todos.Create(c.Request.Context(), req.Text, req.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// PUT/PATCH /todos/:id
func (s *Server) handleUpdateTodo(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	todo, err := s.todos.Update(c.Request.Context(), intParam(c, "id"), store.TodoPatch{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DELETE /todos/:id
func (s *Server) handleDeleteTodo(c *gin.Context) {
	if err := s.todos.Delete(c.Request.Context(), intParam(c, "id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /todos/reorder
func (s *Server) handleReorderTodos(c *gin.Context) {
	var req reorderTodosRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Todos == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Todos array is required"})
		return
	}

	if err := s.todos.Reorder(c.Request.Context(), req.Todos); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

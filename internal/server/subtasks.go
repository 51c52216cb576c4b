package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/dayplan/internal/store"
)

type createSubtaskRequest struct {
	Text string `json:"text"`
}

type updateSubtaskRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type reorderSubtasksRequest struct {
	Subtasks []store.OrderUpdate `json:"subtasks"`
}

// POST /todos/:id/subtasks
func (s *Server) handleCreateSubtask(c *gin.Context) {
	var req createSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	subtask, err := s.subtasks.Create(c.Request.Context(), intParam(c, "id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtask)
}

// PUT/PATCH /todos/:id/subtasks/:subtaskId
func (s *Server) handleUpdateSubtask(c *gin.Context) {
	var req updateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	subtask, err := s.subtasks.Update(c.Request.Context(), intParam(c, "subtaskId"), store.SubtaskPatch{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

// DELETE /todos/:id/subtasks/:subtaskId
func (s *Server) handleDeleteSubtask(c *gin.Context) {
	if err := s.subtasks.Delete(c.Request.Context(), intParam(c, "subtaskId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /todos/:id/subtasks/reorder
func (s *Server) handleReorderSubtasks(c *gin.Context) {
	var req reorderSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Subtasks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtasks array is required"})
		return
	}

	if err := s.subtasks.Reorder(c.Request.Context(), intParam(c, "id"), req.Subtasks); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

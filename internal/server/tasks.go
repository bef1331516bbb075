package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskeve/internal/models"
	"taskeve/internal/storage/sqlite"
)

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

// taskView decorates a task with the number of days until it is due.
// DaysLeft is null when the task has no parseable due date.
type taskView struct {
	models.Task
	DaysLeft *int `json:"days_left"`
}

func newTaskView(t models.Task) taskView {
	view := taskView{Task: t}
	if days, ok := models.DaysLeft(t.DueDate); ok {
		view.DaysLeft = &days
	}
	return view
}

// handleListTasks fetches the authenticated user's tasks.
func (s *Server) handleListTasks(c *gin.Context) {
	user := currentUser(c)

	tasks, err := s.store.ListTasks(c.Request.Context(), user.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t))
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": views})
}

// handleCreateTask inserts a new task for the authenticated user.
func (s *Server) handleCreateTask(c *gin.Context) {
	user := currentUser(c)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), user.ID, *req.Title, getString(req.Description), getString(req.DueDate))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": newTaskView(task)})
}

// handleGetTask returns a single owned task.
func (s *Server) handleGetTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), id, user.ID)
	if errors.Is(err, sqlite.ErrTaskNotFound) {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": newTaskView(task)})
}

// handleUpdateTask overwrites the mutable fields of an owned task.
// Updates against a missing or foreign task succeed without effect.
func (s *Server) handleUpdateTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	err := s.store.UpdateTask(c.Request.Context(), id, user.ID,
		getString(req.Title), getString(req.Description), getString(req.DueDate), getString(req.Status))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "updated"})
}

// handleToggleTask flips an owned task between Pending and Completed.
func (s *Server) handleToggleTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.store.ToggleTask(c.Request.Context(), id, user.ID); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "toggled"})
}

// handleDeleteTask removes an owned task.
func (s *Server) handleDeleteTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteTask(c.Request.Context(), id, user.ID); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

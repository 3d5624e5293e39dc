package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BlazingTwister/finalflow/internal/database"
	"github.com/BlazingTwister/finalflow/internal/dto"
	apierrors "github.com/BlazingTwister/finalflow/internal/errors"
	"github.com/BlazingTwister/finalflow/internal/middleware"
	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/services"
)

// TaskHandler exposes the task/subtask hierarchy over HTTP.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the authenticated student's tasks with subtasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// CreateTask creates a task together with its listed subtasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title         string     `json:"title" binding:"required"`
		Description   string     `json:"description"`
		DueDate       *time.Time `json:"due_date"`
		SubtaskTitles []string   `json:"subtask_titles"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		StudentID:     userID,
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		SubtaskTitles: req.SubtaskTitles,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns one task with its subtasks
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus applies the owner's status override
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.SetTaskStatus(taskID, userID, models.TaskStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and all its subtasks
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AddSubtask creates a subtask under a non-completed task
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	userID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}

	type AddSubtaskRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtask, err := h.taskService.AddSubtask(taskID, userID, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubTaskDTO(*subtask))
}

// UpdateSubtaskStatus updates a subtask and reports the resulting parent
// status so clients can refresh without refetching the whole task
func (h *TaskHandler) UpdateSubtaskStatus(c *gin.Context) {
	userID, subtaskID, ok := actorAndID(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtask, parentStatus, err := h.taskService.SetSubtaskStatus(subtaskID, userID, models.SubTaskStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subtask":            dto.ToSubTaskDTO(*subtask),
		"parent_task_status": parentStatus,
	})
}

// DeleteSubtask removes a subtask and reports the resulting parent status
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	userID, subtaskID, ok := actorAndID(c)
	if !ok {
		return
	}

	parentStatus, err := h.taskService.DeleteSubtask(subtaskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Subtask deleted",
		"parent_task_status": parentStatus,
	})
}

// GetProgress returns the aggregate completion percentage. Students get
// their own; a lecturer can pass student_id to check up on a supervisee.
func (h *TaskHandler) GetProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID := userID
	if studentIDStr := c.Query("student_id"); studentIDStr != "" {
		studentID, err := strconv.ParseUint(studentIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid student_id")
			return
		}

		var student models.User
		if err := database.GetDB().First(&student, studentID).Error; err != nil {
			apierrors.NotFound(c, "Student not found")
			return
		}
		if student.SupervisorID == nil || *student.SupervisorID != userID {
			apierrors.NotFound(c, "Student not found")
			return
		}
		targetID = studentID
	}

	progress, err := h.taskService.Progress(targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// actorAndID pulls the authenticated user and the :id path parameter
func actorAndID(c *gin.Context) (userID, entityID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	entityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, 0, false
	}

	return userID, entityID, true
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BlazingTwister/finalflow/internal/dto"
	apierrors "github.com/BlazingTwister/finalflow/internal/errors"
	"github.com/BlazingTwister/finalflow/internal/middleware"
	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/services"
)

// SlotHandler exposes the submission slot lifecycle and assignment registry
// over HTTP.
type SlotHandler struct {
	slotService       *services.SlotService
	submissionService *services.SubmissionService
}

// NewSlotHandler creates a new SlotHandler
func NewSlotHandler(slotService *services.SlotService, submissionService *services.SubmissionService) *SlotHandler {
	return &SlotHandler{
		slotService:       slotService,
		submissionService: submissionService,
	}
}

// ListSlots returns the lecturer's submission slots
func (h *SlotHandler) ListSlots(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	slots, err := h.slotService.ListSlots(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": dto.ToSlotDTOs(slots)})
}

// CreateSlot creates an open submission slot
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateSlotRequest struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"due_date" binding:"required"`
	}

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	slot, err := h.slotService.CreateSlot(services.CreateSlotInput{
		LecturerID:  userID,
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSlotDTO(*slot))
}

// GetSlot returns the lecturer's view of one slot: its fields plus the
// per-supervisee assignment and submission status matrix
func (h *SlotHandler) GetSlot(c *gin.Context) {
	userID, slotID, ok := actorAndID(c)
	if !ok {
		return
	}

	slot, err := h.slotService.GetSlot(slotID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	supervisees, err := h.slotService.ListSupervisees(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	assignedIDs, err := h.slotService.AssignedStudentIDs(slotID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	submissions, err := h.submissionService.ListBySlot(slotID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSlotDetailResponse(*slot, supervisees, assignedIDs, submissions))
}

// UpdateSlot edits slot fields
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	userID, slotID, ok := actorAndID(c)
	if !ok {
		return
	}

	type UpdateSlotRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Status      *string    `json:"status"`
	}

	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateSlotInput{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := models.SlotStatus(*req.Status)
		input.Status = &status
	}

	slot, err := h.slotService.UpdateSlot(slotID, userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSlotDTO(*slot))
}

// CloseSlot performs the explicit close transition
func (h *SlotHandler) CloseSlot(c *gin.Context) {
	userID, slotID, ok := actorAndID(c)
	if !ok {
		return
	}

	slot, err := h.slotService.CloseSlot(slotID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSlotDTO(*slot))
}

// DeleteSlot removes a slot and everything attached to it
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	userID, slotID, ok := actorAndID(c)
	if !ok {
		return
	}

	if err := h.slotService.DeleteSlot(slotID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

// AssignStudents posts the slot to selected students or to all supervisees
func (h *SlotHandler) AssignStudents(c *gin.Context) {
	userID, slotID, ok := actorAndID(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		StudentIDs []uint64 `json:"student_ids"`
		All        bool     `json:"post_to_all_students"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	linked, err := h.slotService.Assign(services.AssignInput{
		SlotID:     slotID,
		LecturerID: userID,
		StudentIDs: req.StudentIDs,
		AllOfMine:  req.All,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assigned_student_ids": linked})
}

// ListMyStudents returns the lecturer's supervisees
func (h *SlotHandler) ListMyStudents(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	students, err := h.slotService.ListSupervisees(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": dto.ToUserDTOs(students)})
}

// ListMySlots returns the active slots posted to the authenticated student,
// each with the student's own latest submission
func (h *SlotHandler) ListMySlots(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	slots, err := h.slotService.ListStudentSlots(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]dto.StudentSlotView, len(slots))
	for i, slot := range slots {
		submission, err := h.submissionService.LatestForStudent(slot.ID, userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		views[i] = dto.ToStudentSlotView(slot, submission)
	}

	c.JSON(http.StatusOK, gin.H{"slots": views})
}

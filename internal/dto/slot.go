package dto

import (
	"time"

	"github.com/BlazingTwister/finalflow/internal/models"
)

// SlotDTO represents a submission slot in API responses
type SlotDTO struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Status      models.SlotStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// StudentSubmissionStatus is one row of the lecturer's slot detail view:
// a supervisee, whether the slot was posted to them, and their submission.
type StudentSubmissionStatus struct {
	StudentID    uint64         `json:"student_id"`
	Username     string         `json:"username"`
	IsAssigned   bool           `json:"is_assigned_to_slot"`
	HasSubmitted bool           `json:"has_submitted"`
	Submission   *SubmissionDTO `json:"submission_details,omitempty"`
}

// SlotDetailResponse is the lecturer's view of one slot
type SlotDetailResponse struct {
	Slot               SlotDTO                   `json:"slot"`
	SubmissionStatuses []StudentSubmissionStatus `json:"submission_statuses"`
}

// StudentSlotView is the student's view of an assigned slot
type StudentSlotView struct {
	ID           uint64            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	DueDate      time.Time         `json:"due_date"`
	Status       models.SlotStatus `json:"status"`
	LecturerName string            `json:"lecturer_name"`
	HasSubmitted bool              `json:"has_submitted"`
	MySubmission *SubmissionDTO    `json:"my_submission_details,omitempty"`
}

// ToSlotDTO converts a SubmissionSlot model to SlotDTO
func ToSlotDTO(slot models.SubmissionSlot) SlotDTO {
	return SlotDTO{
		ID:          slot.ID,
		Name:        slot.Name,
		Description: slot.Description,
		DueDate:     slot.DueDate,
		Status:      slot.Status,
		CreatedAt:   slot.CreatedAt,
	}
}

// ToSlotDTOs converts a slice of slots
func ToSlotDTOs(slots []models.SubmissionSlot) []SlotDTO {
	dtos := make([]SlotDTO, len(slots))
	for i, s := range slots {
		dtos[i] = ToSlotDTO(s)
	}
	return dtos
}

// ToSlotDetailResponse builds the lecturer's per-student status matrix for a
// slot from the supervisee list, the assigned ids and the slot's submissions.
func ToSlotDetailResponse(
	slot models.SubmissionSlot,
	supervisees []models.User,
	assignedIDs []uint64,
	submissions []models.StudentSubmission,
) SlotDetailResponse {
	assigned := make(map[uint64]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}

	// Latest submission per student; submissions arrive newest first
	latest := make(map[uint64]*models.StudentSubmission, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		if _, ok := latest[sub.StudentID]; !ok {
			latest[sub.StudentID] = sub
		}
	}

	statuses := make([]StudentSubmissionStatus, len(supervisees))
	for i, student := range supervisees {
		_, isAssigned := assigned[student.ID]
		status := StudentSubmissionStatus{
			StudentID:  student.ID,
			Username:   student.Username,
			IsAssigned: isAssigned,
		}

		if sub, ok := latest[student.ID]; ok && isAssigned {
			dto := ToSubmissionDTO(*sub)
			status.Submission = &dto
			status.HasSubmitted = true
		}

		statuses[i] = status
	}

	return SlotDetailResponse{
		Slot:               ToSlotDTO(slot),
		SubmissionStatuses: statuses,
	}
}

// ToStudentSlotView builds the student's view of an assigned slot together
// with their own latest submission, if any.
func ToStudentSlotView(slot models.SubmissionSlot, submission *models.StudentSubmission) StudentSlotView {
	view := StudentSlotView{
		ID:          slot.ID,
		Name:        slot.Name,
		Description: slot.Description,
		DueDate:     slot.DueDate,
		Status:      slot.Status,
	}

	if slot.Lecturer.ID != 0 {
		view.LecturerName = slot.Lecturer.Username
	}

	if submission != nil {
		dto := ToSubmissionDTO(*submission)
		view.MySubmission = &dto
		view.HasSubmitted = true
	}

	return view
}

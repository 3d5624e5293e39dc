package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSlotNotFound        = errors.New("submission slot not found")
	ErrSlotNameRequired    = errors.New("slot name is required")
	ErrSlotDueDateRequired = errors.New("slot due date is required")
	ErrSlotDueDatePast     = errors.New("due date cannot be in the past")
	ErrSlotDueDatePastOpen = errors.New("due date cannot be moved to the past while the slot stays open")
	ErrInvalidSlotStatus   = errors.New("invalid slot status")
	ErrSlotInactive        = errors.New("slot is closed or past its due date")
	ErrNoStudentsSpecified = errors.New("no students specified")
	ErrNoEligibleStudents  = errors.New("none of the specified students are supervised by you")
)

// IsSlotActive is the single activity predicate used by every gated
// operation: a slot accepts writes only while its stored status is open and
// its due date is still in the future. The stored status is never flipped
// automatically when the due date passes.
func IsSlotActive(slot *models.SubmissionSlot, now time.Time) bool {
	return slot.Status == models.SlotStatusOpen && now.Before(slot.DueDate)
}

// SlotService handles the submission slot lifecycle and the slot-to-student
// assignment registry.
type SlotService struct {
	slotRepo repository.SlotRepository
	userRepo repository.UserRepository
}

// NewSlotService creates a new SlotService
func NewSlotService(slotRepo repository.SlotRepository, userRepo repository.UserRepository) *SlotService {
	return &SlotService{
		slotRepo: slotRepo,
		userRepo: userRepo,
	}
}

// CreateSlotInput represents input for creating a submission slot
type CreateSlotInput struct {
	LecturerID  uint64
	Name        string
	Description string
	DueDate     time.Time
}

// CreateSlot creates an open submission slot with a future due date
func (s *SlotService) CreateSlot(input CreateSlotInput) (*models.SubmissionSlot, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrSlotNameRequired
	}
	if input.DueDate.IsZero() {
		return nil, ErrSlotDueDateRequired
	}
	if input.DueDate.Before(time.Now()) {
		return nil, ErrSlotDueDatePast
	}

	slot := &models.SubmissionSlot{
		LecturerID:  input.LecturerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      models.SlotStatusOpen,
	}

	if err := s.slotRepo.Create(slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	return slot, nil
}

// ListSlots returns the lecturer's slots
func (s *SlotService) ListSlots(lecturerID uint64) ([]models.SubmissionSlot, error) {
	slots, err := s.slotRepo.ListByLecturer(lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// GetSlot returns a slot owned by the actor
func (s *SlotService) GetSlot(slotID, actorID uint64, preload ...string) (*models.SubmissionSlot, error) {
	slot, err := s.slotRepo.FindByID(slotID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	if slot.LecturerID != actorID {
		return nil, ErrSlotNotFound
	}

	return slot, nil
}

// UpdateSlotInput represents a partial slot update
type UpdateSlotInput struct {
	Name        *string
	Description *string
	DueDate     *time.Time
	Status      *models.SlotStatus
}

// UpdateSlot edits slot fields. Renaming and describing are always allowed;
// moving the due date into the past is rejected unless the same update also
// closes the slot. A plain status edit back to open is permitted.
func (s *SlotService) UpdateSlot(slotID, actorID uint64, input UpdateSlotInput) (*models.SubmissionSlot, error) {
	slot, err := s.GetSlot(slotID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrSlotNameRequired
		}
		slot.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		slot.Description = *input.Description
	}

	resultingStatus := slot.Status
	if input.Status != nil {
		if !models.ValidSlotStatus(*input.Status) {
			return nil, ErrInvalidSlotStatus
		}
		resultingStatus = *input.Status
	}

	if input.DueDate != nil {
		if input.DueDate.Before(time.Now()) && resultingStatus != models.SlotStatusClosed {
			return nil, ErrSlotDueDatePastOpen
		}
		slot.DueDate = *input.DueDate
	}
	slot.Status = resultingStatus

	if err := s.slotRepo.Update(slot); err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}

	return slot, nil
}

// CloseSlot performs the explicit close transition
func (s *SlotService) CloseSlot(slotID, actorID uint64) (*models.SubmissionSlot, error) {
	slot, err := s.GetSlot(slotID, actorID)
	if err != nil {
		return nil, err
	}

	slot.Status = models.SlotStatusClosed
	if err := s.slotRepo.Update(slot); err != nil {
		return nil, fmt.Errorf("failed to close slot: %w", err)
	}

	return slot, nil
}

// DeleteSlot removes a slot and everything hanging off it
func (s *SlotService) DeleteSlot(slotID, actorID uint64) error {
	if _, err := s.GetSlot(slotID, actorID); err != nil {
		return err
	}

	if err := s.slotRepo.Delete(slotID); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	return nil
}

// AssignInput represents input for posting a slot to students
type AssignInput struct {
	SlotID     uint64
	LecturerID uint64
	StudentIDs []uint64
	AllOfMine  bool
}

// Assign posts the slot to the given students, or to all of the lecturer's
// supervisees. Students already linked are left untouched. Returns the final
// list of linked student ids.
func (s *SlotService) Assign(input AssignInput) ([]uint64, error) {
	slot, err := s.GetSlot(input.SlotID, input.LecturerID)
	if err != nil {
		return nil, err
	}

	if !IsSlotActive(slot, time.Now()) {
		return nil, ErrSlotInactive
	}

	var targets []uint64
	if input.AllOfMine {
		supervisees, err := s.userRepo.ListSupervisees(input.LecturerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list supervisees: %w", err)
		}
		for _, student := range supervisees {
			targets = append(targets, student.ID)
		}
	} else {
		if len(input.StudentIDs) == 0 {
			return nil, ErrNoStudentsSpecified
		}
		ids := uniqueUint64(input.StudentIDs)
		// Keep only the lecturer's own supervisees
		supervisees, err := s.userRepo.ListSupervisees(input.LecturerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list supervisees: %w", err)
		}
		eligible := make(map[uint64]struct{}, len(supervisees))
		for _, student := range supervisees {
			eligible[student.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := eligible[id]; ok {
				targets = append(targets, id)
			}
		}
	}

	if len(targets) == 0 {
		return nil, ErrNoEligibleStudents
	}

	if err := s.slotRepo.AssignStudents(slot.ID, targets); err != nil {
		return nil, fmt.Errorf("failed to assign students: %w", err)
	}

	linked, err := s.slotRepo.ListAssignedStudentIDs(slot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned students: %w", err)
	}

	return linked, nil
}

// ListStudentSlots returns the slots posted to a student that are still
// active, earliest due date first.
func (s *SlotService) ListStudentSlots(studentID uint64) ([]models.SubmissionSlot, error) {
	slots, err := s.slotRepo.ListAssignedTo(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned slots: %w", err)
	}

	now := time.Now()
	active := make([]models.SubmissionSlot, 0, len(slots))
	for _, slot := range slots {
		if IsSlotActive(&slot, now) {
			active = append(active, slot)
		}
	}

	return active, nil
}

// AssignedStudentIDs returns the ids of students a slot has been posted to
func (s *SlotService) AssignedStudentIDs(slotID uint64) ([]uint64, error) {
	ids, err := s.slotRepo.ListAssignedStudentIDs(slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned students: %w", err)
	}
	return ids, nil
}

// ListSupervisees returns the students supervised by a lecturer
func (s *SlotService) ListSupervisees(lecturerID uint64) ([]models.User, error) {
	students, err := s.userRepo.ListSupervisees(lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervisees: %w", err)
	}
	return students, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

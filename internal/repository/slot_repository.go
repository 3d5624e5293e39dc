package repository

import (
	"time"

	"github.com/BlazingTwister/finalflow/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSlotRepository is a GORM implementation of SlotRepository
type GormSlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &GormSlotRepository{db: db}
}

// Create creates a new submission slot
func (r *GormSlotRepository) Create(slot *models.SubmissionSlot) error {
	return r.db.Create(slot).Error
}

// FindByID finds a slot by ID with optional preloading
func (r *GormSlotRepository) FindByID(id uint64, preload ...string) (*models.SubmissionSlot, error) {
	var slot models.SubmissionSlot
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&slot, id).Error; err != nil {
		return nil, err
	}

	return &slot, nil
}

// ListByLecturer lists a lecturer's slots, latest due date first
func (r *GormSlotRepository) ListByLecturer(lecturerID uint64) ([]models.SubmissionSlot, error) {
	var slots []models.SubmissionSlot
	err := r.db.
		Where("lecturer_id = ?", lecturerID).
		Order("due_date DESC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Update updates a slot
func (r *GormSlotRepository) Update(slot *models.SubmissionSlot) error {
	return r.db.Save(slot).Error
}

// Delete removes a slot and cascades to assignments, submissions and file rows
func (r *GormSlotRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var submissionIDs []uint64
		if err := tx.Model(&models.StudentSubmission{}).
			Where("slot_id = ?", id).
			Pluck("id", &submissionIDs).Error; err != nil {
			return err
		}

		if len(submissionIDs) > 0 {
			if err := tx.Where("submission_id IN ?", submissionIDs).
				Delete(&models.SubmissionFile{}).Error; err != nil {
				return err
			}
			if err := tx.Where("slot_id = ?", id).
				Delete(&models.StudentSubmission{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("slot_id = ?", id).Delete(&models.SlotAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.SubmissionSlot{}, id).Error
	})
}

// AssignStudents links students to a slot. Students already linked keep their
// original posted_at row.
func (r *GormSlotRepository) AssignStudents(slotID uint64, studentIDs []uint64) error {
	now := time.Now()
	assignments := make([]models.SlotAssignment, len(studentIDs))

	for i, studentID := range studentIDs {
		assignments[i] = models.SlotAssignment{
			SlotID:    slotID,
			StudentID: studentID,
			PostedAt:  now,
		}
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(&assignments).Error
}

// ListAssignedStudentIDs returns the ids of all students linked to a slot
func (r *GormSlotRepository) ListAssignedStudentIDs(slotID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.SlotAssignment{}).
		Where("slot_id = ?", slotID).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAssignment finds a specific slot assignment
func (r *GormSlotRepository) FindAssignment(slotID, studentID uint64) (*models.SlotAssignment, error) {
	var assignment models.SlotAssignment
	if err := r.db.Where("slot_id = ? AND student_id = ?", slotID, studentID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignedTo lists slots posted to a student, earliest due date first
func (r *GormSlotRepository) ListAssignedTo(studentID uint64) ([]models.SubmissionSlot, error) {
	var slots []models.SubmissionSlot
	assignmentSubQuery := r.db.Model(&models.SlotAssignment{}).
		Select("1").
		Where("slot_assignments.slot_id = submission_slots.id").
		Where("slot_assignments.student_id = ?", studentID)

	err := r.db.Model(&models.SubmissionSlot{}).
		Preload("Lecturer").
		Where("EXISTS (?)", assignmentSubQuery).
		Order("due_date ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

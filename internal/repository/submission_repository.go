package repository

import (
	"github.com/BlazingTwister/finalflow/internal/models"
	"gorm.io/gorm"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// CreateWithFiles creates a submission and its file rows as one atomic unit
func (r *GormSubmissionRepository) CreateWithFiles(submission *models.StudentSubmission, files []models.SubmissionFile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		for i := range files {
			files[i].SubmissionID = submission.ID
		}
		if err := tx.Create(&files).Error; err != nil {
			return err
		}

		submission.Files = files
		return nil
	})
}

// FindByID finds a submission by ID with optional preloading
func (r *GormSubmissionRepository) FindByID(id uint64, preload ...string) (*models.StudentSubmission, error) {
	var submission models.StudentSubmission
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&submission, id).Error; err != nil {
		return nil, err
	}

	return &submission, nil
}

// FindLatestBySlotAndStudent returns the most recent submission by a student
// to a slot
func (r *GormSubmissionRepository) FindLatestBySlotAndStudent(slotID, studentID uint64) (*models.StudentSubmission, error) {
	var submission models.StudentSubmission
	err := r.db.
		Preload("Files").
		Where("slot_id = ? AND student_id = ?", slotID, studentID).
		Order("submitted_at DESC").
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListBySlot lists all submissions for a slot with files and students loaded
func (r *GormSubmissionRepository) ListBySlot(slotID uint64) ([]models.StudentSubmission, error) {
	var submissions []models.StudentSubmission
	err := r.db.
		Preload("Files").
		Preload("Student").
		Where("slot_id = ?", slotID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// Update updates a submission
func (r *GormSubmissionRepository) Update(submission *models.StudentSubmission) error {
	return r.db.Omit("Slot", "Student", "Files").Save(submission).Error
}

// DeleteWithFiles removes a submission and its file rows, returning the
// storage paths of the removed files so the caller can clear the blobs
func (r *GormSubmissionRepository) DeleteWithFiles(id uint64) ([]string, error) {
	var paths []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SubmissionFile{}).
			Where("submission_id = ?", id).
			Pluck("storage_path", &paths).Error; err != nil {
			return err
		}

		if err := tx.Where("submission_id = ?", id).
			Delete(&models.SubmissionFile{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.StudentSubmission{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// FindFileByID finds a submission file with its submission and slot loaded
func (r *GormSubmissionRepository) FindFileByID(id uint64) (*models.SubmissionFile, error) {
	var file models.SubmissionFile
	err := r.db.
		Preload("Submission").
		Preload("Submission.Slot").
		First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

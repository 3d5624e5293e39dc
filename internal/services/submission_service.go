package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/BlazingTwister/finalflow/internal/config"
	"github.com/BlazingTwister/finalflow/internal/constants"
	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/repository"
	"github.com/BlazingTwister/finalflow/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrFileNotFound       = errors.New("submission file not found")
	ErrNotAssigned        = errors.New("student is not assigned to this slot")
	ErrSlotNotAccepting   = errors.New("slot is closed or past its due date")
	ErrNoFiles            = errors.New("at least one file is required")
	ErrTooManyFiles       = errors.New("too many files")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	ErrAlreadySubmitted   = errors.New("a submission for this slot already exists")
	ErrCommentRequired    = errors.New("comment cannot be empty")
	ErrCommentTooLong     = errors.New("comment is too long")
	ErrNotAcknowledged    = errors.New("submission must be acknowledged before downloading files")
)

// FileUpload is one uploaded blob handed over by the transport layer.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

// SubmissionService records student submissions against slots and runs the
// acknowledgement gate that releases their files.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	slotRepo       repository.SlotRepository
	store          storage.Storage
	policy         config.ResubmissionPolicy
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	slotRepo repository.SlotRepository,
	store storage.Storage,
	policy config.ResubmissionPolicy,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		slotRepo:       slotRepo,
		store:          store,
		policy:         policy,
	}
}

// Submit records a student's submission with its files against a slot. The
// student must hold an assignment and the slot must still be accepting
// submissions. What happens on resubmission depends on the configured policy.
func (s *SubmissionService) Submit(studentID, slotID uint64, uploads []FileUpload) (*models.StudentSubmission, error) {
	slot, err := s.slotRepo.FindByID(slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	if _, err := s.slotRepo.FindAssignment(slotID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}

	if !IsSlotActive(slot, time.Now()) {
		return nil, ErrSlotNotAccepting
	}

	if err := validateUploads(uploads); err != nil {
		return nil, err
	}

	previous, err := s.submissionRepo.FindLatestBySlotAndStudent(slotID, studentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check previous submission: %w", err)
	}
	if previous != nil {
		switch s.policy {
		case config.ResubmissionReject:
			return nil, ErrAlreadySubmitted
		case config.ResubmissionReplace:
			paths, err := s.submissionRepo.DeleteWithFiles(previous.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to replace previous submission: %w", err)
			}
			for _, path := range paths {
				if err := s.store.Delete(path); err != nil {
					return nil, fmt.Errorf("failed to remove replaced blob: %w", err)
				}
			}
		}
	}

	now := time.Now()
	files := make([]models.SubmissionFile, 0, len(uploads))
	saved := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key := fmt.Sprintf("submissions/%d/%d/%s%s",
			studentID, slotID, uuid.NewString(), strings.ToLower(filepath.Ext(upload.Name)))

		if err := s.store.Save(key, upload.Content); err != nil {
			s.discardBlobs(saved)
			return nil, fmt.Errorf("failed to store file %s: %w", upload.Name, err)
		}
		saved = append(saved, key)

		files = append(files, models.SubmissionFile{
			FileName:    upload.Name,
			StoragePath: key,
			FileSize:    upload.Size,
			MimeType:    upload.ContentType,
			UploadedAt:  now,
		})
	}

	submission := &models.StudentSubmission{
		SlotID:                slotID,
		StudentID:             studentID,
		SubmittedAt:           now,
		AcknowledgementStatus: models.AcknowledgementPending,
	}

	if err := s.submissionRepo.CreateWithFiles(submission, files); err != nil {
		s.discardBlobs(saved)
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	return submission, nil
}

// GetOwnSubmission returns a submission made by the acting student
func (s *SubmissionService) GetOwnSubmission(submissionID, studentID uint64) (*models.StudentSubmission, error) {
	submission, err := s.submissionRepo.FindByID(submissionID, "Files", "Slot")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	if submission.StudentID != studentID {
		return nil, ErrSubmissionNotFound
	}

	return submission, nil
}

// Acknowledge marks a submission as acknowledged by the slot owner. Calling
// it on an already-acknowledged submission returns the current state
// unchanged.
func (s *SubmissionService) Acknowledge(submissionID, lecturerID uint64) (*models.StudentSubmission, error) {
	submission, err := s.findOwnedSubmission(submissionID, lecturerID)
	if err != nil {
		return nil, err
	}

	if submission.AcknowledgementStatus == models.AcknowledgementAcknowledged {
		return submission, nil
	}

	now := time.Now()
	submission.AcknowledgementStatus = models.AcknowledgementAcknowledged
	submission.AcknowledgedAt = &now

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, fmt.Errorf("failed to acknowledge submission: %w", err)
	}

	return submission, nil
}

// Comment sets or overwrites the lecturer comment on a submission. Allowed at
// any time regardless of acknowledgement state.
func (s *SubmissionService) Comment(submissionID, lecturerID uint64, text string) (*models.StudentSubmission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentRequired
	}
	if len(text) > constants.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	submission, err := s.findOwnedSubmission(submissionID, lecturerID)
	if err != nil {
		return nil, err
	}

	submission.LecturerComment = text
	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	return submission, nil
}

// AuthorizeDownload returns the file when the slot owner may download it,
// which requires the owning submission to be acknowledged.
func (s *SubmissionService) AuthorizeDownload(fileID, lecturerID uint64) (*models.SubmissionFile, error) {
	file, err := s.submissionRepo.FindFileByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}

	if file.Submission.Slot.LecturerID != lecturerID {
		return nil, ErrFileNotFound
	}

	if file.Submission.AcknowledgementStatus != models.AcknowledgementAcknowledged {
		return nil, ErrNotAcknowledged
	}

	return file, nil
}

// OpenFile opens the stored blob for an authorized file
func (s *SubmissionService) OpenFile(file *models.SubmissionFile) (io.ReadCloser, error) {
	return s.store.Open(file.StoragePath)
}

// ListBySlot returns all submissions for a slot owned by the lecturer
func (s *SubmissionService) ListBySlot(slotID, lecturerID uint64) ([]models.StudentSubmission, error) {
	slot, err := s.slotRepo.FindByID(slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	if slot.LecturerID != lecturerID {
		return nil, ErrSlotNotFound
	}

	submissions, err := s.submissionRepo.ListBySlot(slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// LatestForStudent returns a student's most recent submission to a slot, or
// nil when they have not submitted.
func (s *SubmissionService) LatestForStudent(slotID, studentID uint64) (*models.StudentSubmission, error) {
	submission, err := s.submissionRepo.FindLatestBySlotAndStudent(slotID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return submission, nil
}

// findOwnedSubmission loads a submission and verifies the actor owns its
// slot. Ownership failures are reported as not found.
func (s *SubmissionService) findOwnedSubmission(submissionID, lecturerID uint64) (*models.StudentSubmission, error) {
	submission, err := s.submissionRepo.FindByID(submissionID, "Slot", "Files")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	if submission.Slot.LecturerID != lecturerID {
		return nil, ErrSubmissionNotFound
	}

	return submission, nil
}

// discardBlobs removes blobs written before a failed submit. Best effort;
// the submission row never existed so orphaned blobs are the only leak.
func (s *SubmissionService) discardBlobs(keys []string) {
	for _, key := range keys {
		_ = s.store.Delete(key)
	}
}

func validateUploads(uploads []FileUpload) error {
	if len(uploads) == 0 {
		return ErrNoFiles
	}
	if len(uploads) > constants.MaxUploadFiles {
		return ErrTooManyFiles
	}

	for _, upload := range uploads {
		if upload.Size > constants.MaxUploadSizeBytes {
			return ErrFileTooLarge
		}
		ext := strings.ToLower(filepath.Ext(upload.Name))
		allowed := false
		for _, a := range constants.AllowedUploadExtensions {
			if ext == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrFileTypeNotAllowed
		}
	}

	return nil
}

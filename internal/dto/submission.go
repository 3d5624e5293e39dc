package dto

import (
	"time"

	"github.com/BlazingTwister/finalflow/internal/models"
)

// SubmissionFileDTO represents an uploaded file in API responses
type SubmissionFileDTO struct {
	ID         uint64    `json:"id"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SubmissionDTO represents a student submission in API responses
type SubmissionDTO struct {
	ID                    uint64                       `json:"id"`
	SlotID                uint64                       `json:"slot_id"`
	StudentID             uint64                       `json:"student_id"`
	SubmittedAt           time.Time                    `json:"submitted_at"`
	AcknowledgementStatus models.AcknowledgementStatus `json:"acknowledgement_status"`
	LecturerComment       string                       `json:"lecturer_comment,omitempty"`
	AcknowledgedAt        *time.Time                   `json:"acknowledged_at,omitempty"`
	Files                 []SubmissionFileDTO          `json:"files"`
}

// ToSubmissionFileDTO converts a SubmissionFile model to SubmissionFileDTO
func ToSubmissionFileDTO(file models.SubmissionFile) SubmissionFileDTO {
	return SubmissionFileDTO{
		ID:         file.ID,
		FileName:   file.FileName,
		FileSize:   file.FileSize,
		MimeType:   file.MimeType,
		UploadedAt: file.UploadedAt,
	}
}

// ToSubmissionDTO converts a StudentSubmission model to SubmissionDTO
func ToSubmissionDTO(submission models.StudentSubmission) SubmissionDTO {
	files := make([]SubmissionFileDTO, len(submission.Files))
	for i, f := range submission.Files {
		files[i] = ToSubmissionFileDTO(f)
	}

	return SubmissionDTO{
		ID:                    submission.ID,
		SlotID:                submission.SlotID,
		StudentID:             submission.StudentID,
		SubmittedAt:           submission.SubmittedAt,
		AcknowledgementStatus: submission.AcknowledgementStatus,
		LecturerComment:       submission.LecturerComment,
		AcknowledgedAt:        submission.AcknowledgedAt,
		Files:                 files,
	}
}

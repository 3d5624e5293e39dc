package models

import (
	"time"
)

type AcknowledgementStatus string

const (
	AcknowledgementPending      AcknowledgementStatus = "pending"
	AcknowledgementAcknowledged AcknowledgementStatus = "acknowledged"
)

// StudentSubmission records one submit action by an assigned student.
// Files become downloadable only after the lecturer acknowledges it.
type StudentSubmission struct {
	ID                    uint64                `gorm:"primarykey" json:"id"`
	SlotID                uint64                `gorm:"not null;index" json:"slot_id"`
	StudentID             uint64                `gorm:"not null;index" json:"student_id"`
	SubmittedAt           time.Time             `gorm:"not null" json:"submitted_at"`
	AcknowledgementStatus AcknowledgementStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"acknowledgement_status"`
	LecturerComment       string                `gorm:"type:text" json:"lecturer_comment"`
	AcknowledgedAt        *time.Time            `json:"acknowledged_at"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`

	// Relations
	Slot    SubmissionSlot   `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
	Student User             `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Files   []SubmissionFile `gorm:"foreignKey:SubmissionID" json:"files,omitempty"`
}

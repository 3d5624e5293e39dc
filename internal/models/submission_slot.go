package models

import (
	"time"

	"gorm.io/gorm"
)

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "open"
	SlotStatusClosed SlotStatus = "closed"
)

// ValidSlotStatus reports whether s is one of the two slot statuses.
func ValidSlotStatus(s SlotStatus) bool {
	return s == SlotStatusOpen || s == SlotStatusClosed
}

// SubmissionSlot is a lecturer-defined assignment drop-box with a due date.
// The stored status is never flipped by a background process; a slot past its
// due date simply stops accepting writes.
type SubmissionSlot struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	LecturerID  uint64         `gorm:"not null" json:"lecturer_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     time.Time      `gorm:"not null" json:"due_date"`
	Status      SlotStatus     `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Lecturer    User                `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
	Assignments []SlotAssignment    `gorm:"foreignKey:SlotID" json:"assignments,omitempty"`
	Submissions []StudentSubmission `gorm:"foreignKey:SlotID" json:"submissions,omitempty"`
}

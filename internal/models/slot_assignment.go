package models

import (
	"time"
)

// SlotAssignment links a submission slot to a student it was posted to.
// The composite primary key makes posting idempotent.
type SlotAssignment struct {
	SlotID    uint64    `gorm:"primarykey" json:"slot_id"`
	StudentID uint64    `gorm:"primarykey" json:"student_id"`
	PostedAt  time.Time `json:"posted_at"`

	// Relations
	Slot    SubmissionSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
	Student User           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

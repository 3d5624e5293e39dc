package models

import (
	"time"

	"gorm.io/gorm"
)

type SubTaskStatus string

const (
	SubTaskStatusPending   SubTaskStatus = "pending"
	SubTaskStatusCompleted SubTaskStatus = "completed"
)

// ValidSubTaskStatus reports whether s is one of the two subtask statuses.
func ValidSubTaskStatus(s SubTaskStatus) bool {
	return s == SubTaskStatusPending || s == SubTaskStatusCompleted
}

// SubTask is a step belonging to exactly one Task. It is deleted together
// with its parent.
type SubTask struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	TaskID    uint64         `gorm:"not null;index" json:"task_id"`
	Title     string         `gorm:"not null" json:"title"`
	Status    SubTaskStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}

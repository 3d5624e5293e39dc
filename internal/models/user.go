package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleLecturer UserRole = "lecturer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	SupervisorID *uint64        `json:"supervisor_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Supervisor  *User            `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Supervisees []User           `gorm:"foreignKey:SupervisorID" json:"-"`
	Tasks       []Task           `gorm:"foreignKey:StudentID" json:"-"`
	Slots       []SubmissionSlot `gorm:"foreignKey:LecturerID" json:"-"`
}

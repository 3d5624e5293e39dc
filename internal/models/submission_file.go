package models

import (
	"time"
)

// SubmissionFile is one uploaded blob attached to a student submission.
// StoragePath is the key within the blob store, not a client-visible path.
type SubmissionFile struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	SubmissionID uint64    `gorm:"not null;index" json:"submission_id"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StoragePath  string    `gorm:"type:varchar(512);not null" json:"-"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	MimeType     string    `gorm:"type:varchar(127)" json:"mime_type"`
	UploadedAt   time.Time `gorm:"not null" json:"uploaded_at"`

	// Relations
	Submission StudentSubmission `gorm:"foreignKey:SubmissionID" json:"-"`
}

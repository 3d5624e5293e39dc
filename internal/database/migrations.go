package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB, driver string) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for per-student listing and progress reads
		{"tasks", "idx_tasks_student_id", "student_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Subtask sibling lookups during cascade evaluation
		{"sub_tasks", "idx_sub_tasks_task_id_status", "task_id, status"},

		// Slot listing and activity checks
		{"submission_slots", "idx_submission_slots_lecturer_id", "lecturer_id"},
		{"submission_slots", "idx_submission_slots_due_date", "due_date"},

		// Submission lookups by slot and student
		{"student_submissions", "idx_student_submissions_slot_student", "slot_id, student_id"},
		{"submission_files", "idx_submission_files_submission_id", "submission_id"},
	}

	for _, idx := range indexes {
		var count int64
		var err error
		if driver == "postgres" {
			err = db.Raw(`
				SELECT COUNT(*)
				FROM pg_indexes
				WHERE tablename = ? AND indexname = ?
			`, idx.table, idx.name).Count(&count).Error
		} else {
			err = db.Raw(`
				SELECT COUNT(*)
				FROM information_schema.statistics
				WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
			`, idx.table, idx.name).Count(&count).Error
		}

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

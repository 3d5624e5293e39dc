package repository

import (
	"github.com/BlazingTwister/finalflow/internal/models"
)

// TaskRepository defines the interface for task and subtask data access
type TaskRepository interface {
	// CreateWithSubtasks creates a task and its subtasks in one transaction
	CreateWithSubtasks(task *models.Task, subtasks []models.SubTask) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByStudent lists a student's tasks with subtasks preloaded
	ListByStudent(studentID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its subtasks
	Delete(id uint64) error

	// CreateSubtask creates a new subtask
	CreateSubtask(subtask *models.SubTask) error

	// FindSubtaskByID finds a subtask with its parent task loaded
	FindSubtaskByID(id uint64) (*models.SubTask, error)

	// ListSubtasks lists all subtasks under a task
	ListSubtasks(taskID uint64) ([]models.SubTask, error)

	// SaveSubtaskWithParentStatus persists the subtask and, when parentStatus
	// is non-nil, the parent task's status within the same transaction
	SaveSubtaskWithParentStatus(subtask *models.SubTask, parentStatus *models.TaskStatus) error

	// DeleteSubtaskWithParentStatus removes the subtask and, when parentStatus
	// is non-nil, updates the parent task's status within the same transaction
	DeleteSubtaskWithParentStatus(subtask *models.SubTask, parentStatus *models.TaskStatus) error
}

// SlotRepository defines the interface for submission slot data access
type SlotRepository interface {
	// Create creates a new submission slot
	Create(slot *models.SubmissionSlot) error

	// FindByID finds a slot by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.SubmissionSlot, error)

	// ListByLecturer lists a lecturer's slots, latest due date first
	ListByLecturer(lecturerID uint64) ([]models.SubmissionSlot, error)

	// Update updates a slot
	Update(slot *models.SubmissionSlot) error

	// Delete deletes a slot together with its assignments, submissions and file rows
	Delete(id uint64) error

	// AssignStudents links students to a slot, skipping already-linked ones
	AssignStudents(slotID uint64, studentIDs []uint64) error

	// ListAssignedStudentIDs returns the ids of all students linked to a slot
	ListAssignedStudentIDs(slotID uint64) ([]uint64, error)

	// FindAssignment finds a specific slot assignment
	FindAssignment(slotID, studentID uint64) (*models.SlotAssignment, error)

	// ListAssignedTo lists slots posted to a student, earliest due date first
	ListAssignedTo(studentID uint64) ([]models.SubmissionSlot, error)
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// CreateWithFiles creates a submission and its file rows in one transaction
	CreateWithFiles(submission *models.StudentSubmission, files []models.SubmissionFile) error

	// FindByID finds a submission by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.StudentSubmission, error)

	// FindLatestBySlotAndStudent returns the most recent submission by a
	// student to a slot, or gorm.ErrRecordNotFound
	FindLatestBySlotAndStudent(slotID, studentID uint64) (*models.StudentSubmission, error)

	// ListBySlot lists all submissions for a slot with files and students loaded
	ListBySlot(slotID uint64) ([]models.StudentSubmission, error)

	// Update updates a submission
	Update(submission *models.StudentSubmission) error

	// DeleteWithFiles removes a submission and its file rows, returning the
	// storage paths of the removed files
	DeleteWithFiles(id uint64) ([]string, error)

	// FindFileByID finds a submission file with its submission and slot loaded
	FindFileByID(id uint64) (*models.SubmissionFile, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ListSupervisees lists the students supervised by a lecturer
	ListSupervisees(lecturerID uint64) ([]models.User, error)
}

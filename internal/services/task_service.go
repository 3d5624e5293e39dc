package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrTaskTitleRequired    = errors.New("title is required")
	ErrTaskDueDateRequired  = errors.New("due date is required")
	ErrSubtaskTitleRequired = errors.New("subtask title cannot be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidSubtaskStatus = errors.New("invalid subtask status")
	ErrTaskCompleted        = errors.New("task is already completed")
)

// TaskService handles the task/subtask hierarchy and its status rules.
type TaskService struct {
	taskRepo repository.TaskRepository
	locks    *keyedMutex
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		locks:    newKeyedMutex(),
	}
}

// CreateTaskInput represents input for creating a task with its subtasks
type CreateTaskInput struct {
	StudentID     uint64
	Title         string
	Description   string
	DueDate       *time.Time
	SubtaskTitles []string
}

// CreateTask creates a task and all listed subtasks as one atomic unit
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}
	if input.DueDate == nil {
		return nil, ErrTaskDueDateRequired
	}

	subtasks := make([]models.SubTask, 0, len(input.SubtaskTitles))
	for _, title := range input.SubtaskTitles {
		if strings.TrimSpace(title) == "" {
			return nil, ErrSubtaskTitleRequired
		}
		subtasks = append(subtasks, models.SubTask{
			Title:  strings.TrimSpace(title),
			Status: models.SubTaskStatusPending,
		})
	}

	task := &models.Task{
		StudentID:   input.StudentID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      models.TaskStatusPending,
	}

	if err := s.taskRepo.CreateWithSubtasks(task, subtasks); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns a student's tasks with subtasks loaded
func (s *TaskService) ListTasks(studentID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by the actor with its subtasks loaded
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "SubTasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.StudentID != actorID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// SetTaskStatus applies an owner override of the task status. The override is
// unconditional and never inspects subtask state.
func (s *TaskService) SetTaskStatus(taskID, actorID uint64, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.GetTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

// AddSubtask creates a pending subtask under a non-completed task
func (s *TaskService) AddSubtask(taskID, actorID uint64, title string) (*models.SubTask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrSubtaskTitleRequired
	}

	task, err := s.GetTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		return nil, ErrTaskCompleted
	}

	subtask := &models.SubTask{
		TaskID: task.ID,
		Title:  strings.TrimSpace(title),
		Status: models.SubTaskStatusPending,
	}

	if err := s.taskRepo.CreateSubtask(subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	return subtask, nil
}

// SetSubtaskStatus updates a subtask and evaluates the forward cascade: when
// every sibling under the same parent is completed afterwards, the parent
// task becomes completed. The cascade never reverts a parent. Returns the
// updated subtask and the resulting parent status.
func (s *TaskService) SetSubtaskStatus(subtaskID, actorID uint64, status models.SubTaskStatus) (*models.SubTask, models.TaskStatus, error) {
	if !models.ValidSubTaskStatus(status) {
		return nil, "", ErrInvalidSubtaskStatus
	}

	subtask, err := s.findOwnedSubtask(subtaskID, actorID)
	if err != nil {
		return nil, "", err
	}

	unlock := s.locks.Lock(subtask.TaskID)
	defer unlock()

	// Re-read the parent under the lock; a sibling update may have cascaded
	// it to completed in the meantime.
	parent, err := s.taskRepo.FindByID(subtask.TaskID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find parent task: %w", err)
	}
	if parent.Status == models.TaskStatusCompleted {
		return nil, "", ErrTaskCompleted
	}

	subtask.Status = status

	siblings, err := s.taskRepo.ListSubtasks(subtask.TaskID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list subtasks: %w", err)
	}
	for i := range siblings {
		if siblings[i].ID == subtask.ID {
			siblings[i].Status = status
		}
	}

	parentStatus := parent.Status
	var cascade *models.TaskStatus
	if allSubtasksCompleted(siblings) {
		parentStatus = models.TaskStatusCompleted
		cascade = &parentStatus
	}

	if err := s.taskRepo.SaveSubtaskWithParentStatus(subtask, cascade); err != nil {
		return nil, "", fmt.Errorf("failed to update subtask: %w", err)
	}

	return subtask, parentStatus, nil
}

// DeleteSubtask removes a subtask. When subtasks remain under a non-completed
// parent and all of them are completed, the parent becomes completed; in
// every other case the parent status is left untouched.
func (s *TaskService) DeleteSubtask(subtaskID, actorID uint64) (models.TaskStatus, error) {
	subtask, err := s.findOwnedSubtask(subtaskID, actorID)
	if err != nil {
		return "", err
	}

	unlock := s.locks.Lock(subtask.TaskID)
	defer unlock()

	parent, err := s.taskRepo.FindByID(subtask.TaskID)
	if err != nil {
		return "", fmt.Errorf("failed to find parent task: %w", err)
	}

	siblings, err := s.taskRepo.ListSubtasks(subtask.TaskID)
	if err != nil {
		return "", fmt.Errorf("failed to list subtasks: %w", err)
	}

	remaining := make([]models.SubTask, 0, len(siblings))
	for _, st := range siblings {
		if st.ID != subtask.ID {
			remaining = append(remaining, st)
		}
	}

	parentStatus := parent.Status
	var cascade *models.TaskStatus
	if parentStatus != models.TaskStatusCompleted && allSubtasksCompleted(remaining) {
		parentStatus = models.TaskStatusCompleted
		cascade = &parentStatus
	}

	if err := s.taskRepo.DeleteSubtaskWithParentStatus(subtask, cascade); err != nil {
		return "", fmt.Errorf("failed to delete subtask: %w", err)
	}

	return parentStatus, nil
}

// DeleteTask deletes a task and all its subtasks
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.StudentID != actorID {
		return ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Progress computes the student's aggregate completion percentage
func (s *TaskService) Progress(studentID uint64) (int, error) {
	tasks, err := s.taskRepo.ListByStudent(studentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return ComputeProgress(tasks), nil
}

// findOwnedSubtask loads a subtask with its parent and verifies the actor
// owns the parent task. Ownership failures are reported as not found.
func (s *TaskService) findOwnedSubtask(subtaskID, actorID uint64) (*models.SubTask, error) {
	subtask, err := s.taskRepo.FindSubtaskByID(subtaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}

	if subtask.Task.StudentID != actorID {
		return nil, ErrSubtaskNotFound
	}

	return subtask, nil
}

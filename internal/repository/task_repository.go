package repository

import (
	"github.com/BlazingTwister/finalflow/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithSubtasks creates a task and its subtasks as one atomic unit
func (r *GormTaskRepository) CreateWithSubtasks(task *models.Task, subtasks []models.SubTask) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if len(subtasks) == 0 {
			return nil
		}

		for i := range subtasks {
			subtasks[i].TaskID = task.ID
		}
		if err := tx.Create(&subtasks).Error; err != nil {
			return err
		}

		task.SubTasks = subtasks
		return nil
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByStudent lists a student's tasks with subtasks preloaded
func (r *GormTaskRepository) ListByStudent(studentID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("SubTasks").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and cascades to its subtasks
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// CreateSubtask creates a new subtask
func (r *GormTaskRepository) CreateSubtask(subtask *models.SubTask) error {
	return r.db.Create(subtask).Error
}

// FindSubtaskByID finds a subtask with its parent task loaded
func (r *GormTaskRepository) FindSubtaskByID(id uint64) (*models.SubTask, error) {
	var subtask models.SubTask
	if err := r.db.Preload("Task").First(&subtask, id).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

// ListSubtasks lists all subtasks under a task
func (r *GormTaskRepository) ListSubtasks(taskID uint64) ([]models.SubTask, error) {
	var subtasks []models.SubTask
	err := r.db.
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&subtasks).Error
	if err != nil {
		return nil, err
	}
	return subtasks, nil
}

// SaveSubtaskWithParentStatus persists the subtask and optionally the parent
// task's status within the same transaction
func (r *GormTaskRepository) SaveSubtaskWithParentStatus(subtask *models.SubTask, parentStatus *models.TaskStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Task").Save(subtask).Error; err != nil {
			return err
		}

		if parentStatus == nil {
			return nil
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", subtask.TaskID).
			Update("status", *parentStatus).Error
	})
}

// DeleteSubtaskWithParentStatus removes the subtask and optionally updates
// the parent task's status within the same transaction
func (r *GormTaskRepository) DeleteSubtaskWithParentStatus(subtask *models.SubTask, parentStatus *models.TaskStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SubTask{}, subtask.ID).Error; err != nil {
			return err
		}

		if parentStatus == nil {
			return nil
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", subtask.TaskID).
			Update("status", *parentStatus).Error
	})
}

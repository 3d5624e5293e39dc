package dto

import (
	"time"

	"github.com/BlazingTwister/finalflow/internal/models"
)

// SubTaskDTO represents a subtask in API responses
type SubTaskDTO struct {
	ID     uint64               `json:"id"`
	Title  string               `json:"title"`
	Status models.SubTaskStatus `json:"status"`
}

// TaskDTO represents a task with its subtasks in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     *time.Time        `json:"due_date"`
	Status      models.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	SubTasks    []SubTaskDTO      `json:"sub_tasks"`
}

// ToSubTaskDTO converts a SubTask model to SubTaskDTO
func ToSubTaskDTO(subtask models.SubTask) SubTaskDTO {
	return SubTaskDTO{
		ID:     subtask.ID,
		Title:  subtask.Title,
		Status: subtask.Status,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	subtasks := make([]SubTaskDTO, len(task.SubTasks))
	for i, st := range task.SubTasks {
		subtasks[i] = ToSubTaskDTO(st)
	}

	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		SubTasks:    subtasks,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

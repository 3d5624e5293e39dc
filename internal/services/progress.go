package services

import (
	"math"

	"github.com/BlazingTwister/finalflow/internal/models"
)

// ComputeProgress derives an aggregate completion percentage over a student's
// tasks. Each task contributes completion units:
//
//   - a completed task counts as 1/1 regardless of its subtasks
//   - a non-completed task with subtasks counts its completed subtasks over
//     the subtask total
//   - a non-completed task without subtasks counts as 0/1
//
// The tasks must have their subtasks loaded. Returns 0 when there are no tasks.
func ComputeProgress(tasks []models.Task) int {
	var completed, total int

	for _, task := range tasks {
		switch {
		case task.Status == models.TaskStatusCompleted:
			completed++
			total++
		case len(task.SubTasks) > 0:
			for _, st := range task.SubTasks {
				if st.Status == models.SubTaskStatusCompleted {
					completed++
				}
			}
			total += len(task.SubTasks)
		default:
			total++
		}
	}

	if total == 0 {
		return 0
	}

	return int(math.Floor(float64(completed)/float64(total)*100 + 0.5))
}

// allSubtasksCompleted reports whether every subtask in the set is completed.
// An empty set is not considered complete; the forward cascade only fires for
// tasks that actually have subtasks.
func allSubtasksCompleted(subtasks []models.SubTask) bool {
	if len(subtasks) == 0 {
		return false
	}
	for _, st := range subtasks {
		if st.Status != models.SubTaskStatusCompleted {
			return false
		}
	}
	return true
}

package dto

import (
	"github.com/taskbox/taskbox-api/internal/models"
)

// TaskResponse is the envelope for single-task responses.
type TaskResponse struct {
	Success bool        `json:"success"`
	Task    models.Task `json:"task"`
}

// TaskListResponse is the envelope for the ordered task list.
type TaskListResponse struct {
	Success bool          `json:"success"`
	Tasks   []models.Task `json:"tasks"`
}

// MessageResponse is the envelope for acknowledgement-only responses.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToTaskResponse wraps a task in the response envelope.
func ToTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		Success: true,
		Task:    task,
	}
}

// ToTaskListResponse wraps an ordered task list in the response envelope.
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return TaskListResponse{
		Success: true,
		Tasks:   tasks,
	}
}

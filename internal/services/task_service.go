package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskbox/taskbox-api/internal/constants"
	"github.com/taskbox/taskbox-api/internal/models"
	"github.com/taskbox/taskbox-api/internal/query"
	"github.com/taskbox/taskbox-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title too long")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
)

// TaskService handles task business logic. Every operation is scoped to
// the requesting user; tasks owned by other users are reported as not
// found, never as forbidden.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title         string
	Description   string
	Status        models.TaskStatus
	Priority      models.TaskPriority
	DueDate       *time.Time
	ScheduledDate *time.Time
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left unchanged.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ScheduledDate *time.Time
}

// CreateTask creates a new task for userID with defaults applied.
func (s *TaskService) CreateTask(userID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if len(input.Title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	} else if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		UserID:        userID,
		Title:         input.Title,
		Description:   input.Description,
		Status:        input.Status,
		Priority:      input.Priority,
		DueDate:       input.DueDate,
		ScheduledDate: input.ScheduledDate,
		Completed:     input.Status == models.TaskStatusCompleted,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a single task owned by userID.
func (s *TaskService) GetTask(userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasks returns the user's tasks filtered and ordered by q. The
// repository supplies the set in insertion order; filtering and the
// stable sort happen in the query engine.
func (s *TaskService) ListTasks(userID uint64, q query.ListQuery) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return query.Apply(tasks, q.Criteria, q.SortBy, q.Order), nil
}

// UpdateTask applies a partial update to a task owned by userID. Provided
// fields are validated individually; a status change re-derives the
// completed flag.
func (s *TaskService) UpdateTask(userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		if len(*input.Title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
		task.Completed = *input.Status == models.TaskStatusCompleted
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ScheduledDate != nil {
		task.ScheduledDate = input.ScheduledDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ToggleTask flips the completed flag. Re-activating a completed task
// always lands on pending, even if it was in-progress before completion.
func (s *TaskService) ToggleTask(userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Completed = !task.Completed
	if task.Completed {
		task.Status = models.TaskStatusCompleted
	} else {
		task.Status = models.TaskStatusPending
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by userID.
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	if err := s.taskRepo.DeleteByOwner(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

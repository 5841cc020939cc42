package repository

import (
	"github.com/taskbox/taskbox-api/internal/models"
)

// TaskRepository defines the interface for task data access. Every lookup
// is scoped to the owning user: a task that exists but belongs to someone
// else behaves exactly like a task that does not exist.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwner finds a task by ID within the owner's scope
	FindByOwner(userID, taskID uint64) (*models.Task, error)

	// ListByOwner retrieves all of the owner's tasks in insertion order.
	// Callers must not rely on any other ordering; the query engine
	// owns the response ordering.
	ListByOwner(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// DeleteByOwner soft deletes a task within the owner's scope
	DeleteByOwner(userID, taskID uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

package repository

import (
	"github.com/taskbox/taskbox-api/internal/models"
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

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByOwner finds a task by ID within the owner's scope
func (r *GormTaskRepository) FindByOwner(userID, taskID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("user_id = ?", userID).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner retrieves all of the owner's tasks. The secondary id sort
// keeps insertion order deterministic when creation timestamps collide.
func (r *GormTaskRepository) ListByOwner(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
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

// DeleteByOwner soft deletes a task within the owner's scope
func (r *GormTaskRepository) DeleteByOwner(userID, taskID uint64) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Task{}, taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

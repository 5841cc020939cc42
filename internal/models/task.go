package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a single to-do item owned by exactly one user. Completed is kept
// consistent with Status: it is true if and only if Status is "completed".
type Task struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	UserID        uint64         `gorm:"not null;index" json:"user_id"`
	Title         string         `gorm:"type:varchar(100);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority      TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate       *time.Time     `json:"dueDate"`
	ScheduledDate *time.Time     `json:"scheduledDate"`
	Completed     bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

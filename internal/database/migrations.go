package database

import (
	"fmt"

	"github.com/taskbox/taskbox-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds indexes that back the task filter and sort paths.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		name    string
		columns string
	}{
		{"idx_tasks_user_id", "user_id"},
		{"idx_tasks_status", "status"},
		{"idx_tasks_priority", "priority"},
		{"idx_tasks_due_date", "due_date"},
		{"idx_tasks_created_at", "created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(&models.Task{}, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
)

// AppendHistory is the only write this layer exposes for history entries;
// there is no update or delete.
func (s *Store) AppendHistory(ctx context.Context, entry *models.TaskHistory) error {
	return wrapErr(s.db.WithContext(ctx).Create(entry).Error, "task history")
}

// HistoryByTask returns entries newest first. Timestamp ties are broken by id
// descending so the latest insert wins deterministically.
func (s *Store) HistoryByTask(ctx context.Context, taskID uint) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory

	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error

	if err != nil {
		return nil, wrapErr(err, "task history")
	}

	return entries, nil
}

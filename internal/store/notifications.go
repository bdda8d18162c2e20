package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
)

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return wrapErr(s.db.WithContext(ctx).Create(notification).Error, "notification")
}

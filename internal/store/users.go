package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
)

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapErr(err, "user")
	}

	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapErr(err, "user")
	}

	return &user, nil
}

package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return wrapErr(s.db.WithContext(ctx).Create(task).Error, "task")
}

func (s *Store) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task

	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, wrapErr(err, "task")
	}

	return &task, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	return wrapErr(s.db.WithContext(ctx).Save(task).Error, "task")
}

func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	return wrapErr(s.db.WithContext(ctx).Unscoped().Delete(&models.Task{}, id).Error, "task")
}

func (s *Store) DeleteTasksByProject(ctx context.Context, projectID uint) error {
	memberIDs := s.db.Model(&models.ProjectMembership{}).
		Select("id").
		Where("project_id = ?", projectID)

	return wrapErr(s.db.WithContext(ctx).
		Unscoped().
		Where("membership_id IN (?)", memberIDs).
		Delete(&models.Task{}).Error, "tasks")
}

func (s *Store) CountTasksByMembership(ctx context.Context, membershipID uint) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("membership_id = ?", membershipID).
		Count(&count).Error

	if err != nil {
		return 0, wrapErr(err, "tasks")
	}

	return count, nil
}

func (s *Store) AllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task

	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, wrapErr(err, "tasks")
	}

	return tasks, nil
}

func (s *Store) TasksByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task

	err := s.db.WithContext(ctx).
		Joins("JOIN project_memberships ON project_memberships.id = tasks.membership_id").
		Where("project_memberships.project_id = ?", projectID).
		Find(&tasks).Error

	if err != nil {
		return nil, wrapErr(err, "tasks")
	}

	return tasks, nil
}

func (s *Store) TasksByProjectAndStatus(ctx context.Context, projectID uint, status types.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task

	err := s.db.WithContext(ctx).
		Joins("JOIN project_memberships ON project_memberships.id = tasks.membership_id").
		Where("project_memberships.project_id = ? AND tasks.status = ?", projectID, status).
		Find(&tasks).Error

	if err != nil {
		return nil, wrapErr(err, "tasks")
	}

	return tasks, nil
}

func (s *Store) TasksByAssignedUser(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task

	err := s.db.WithContext(ctx).
		Joins("JOIN project_memberships ON project_memberships.id = tasks.membership_id").
		Where("project_memberships.user_id = ?", userID).
		Find(&tasks).Error

	if err != nil {
		return nil, wrapErr(err, "tasks")
	}

	return tasks, nil
}

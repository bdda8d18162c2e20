package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
)

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	return wrapErr(s.db.WithContext(ctx).Create(project).Error, "project")
}

func (s *Store) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, wrapErr(err, "project")
	}

	return &project, nil
}

func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	return wrapErr(s.db.WithContext(ctx).Save(project).Error, "project")
}

// DeleteProject removes the row outright; the membership foreign key cascades
// the project's memberships (and through them, notifications) in the same
// statement.
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	return wrapErr(s.db.WithContext(ctx).Unscoped().Delete(&models.Project{}, id).Error, "project")
}

func (s *Store) ProjectsByMember(ctx context.Context, userID uint) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.WithContext(ctx).
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
		Where("project_memberships.user_id = ?", userID).
		Find(&projects).Error

	if err != nil {
		return nil, wrapErr(err, "projects")
	}

	return projects, nil
}

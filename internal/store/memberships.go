package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
)

func (s *Store) CreateMembership(ctx context.Context, membership *models.ProjectMembership) error {
	return wrapErr(s.db.WithContext(ctx).Create(membership).Error, "membership")
}

func (s *Store) MembershipByID(ctx context.Context, id uint) (*models.ProjectMembership, error) {
	var membership models.ProjectMembership

	if err := s.db.WithContext(ctx).First(&membership, id).Error; err != nil {
		return nil, wrapErr(err, "membership")
	}

	return &membership, nil
}

func (s *Store) MembershipByProjectAndUser(ctx context.Context, projectID, userID uint) (*models.ProjectMembership, error) {
	var membership models.ProjectMembership

	err := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error

	if err != nil {
		return nil, wrapErr(err, "membership")
	}

	return &membership, nil
}

func (s *Store) MembershipsByProject(ctx context.Context, projectID uint) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership

	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&memberships).Error

	if err != nil {
		return nil, wrapErr(err, "memberships")
	}

	return memberships, nil
}

func (s *Store) UpdateMembership(ctx context.Context, membership *models.ProjectMembership) error {
	return wrapErr(s.db.WithContext(ctx).Save(membership).Error, "membership")
}

// DeleteMembership is unscoped: a soft-deleted row would keep occupying the
// (user, project) unique index and block re-invitation.
func (s *Store) DeleteMembership(ctx context.Context, id uint) error {
	return wrapErr(s.db.WithContext(ctx).Unscoped().Delete(&models.ProjectMembership{}, id).Error, "membership")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

type ProjectService struct {
	store    Store
	mailer   Mailer
	notifier Notifier
}

func NewProjectService(store Store, mailer Mailer, notifier Notifier) *ProjectService {
	return &ProjectService{
		store:    store,
		mailer:   mailer,
		notifier: notifier,
	}
}

type ProjectInput struct {
	Name        string
	Description string
	StartDate   *datatypes.Date
}

type MemberInfo struct {
	ProjectID uint
	UserID    uint
	Email     string
	Name      string
	Role      types.Role
}

// Create persists the project and enrolls the creator as ADMIN in one
// transaction: both rows commit or neither does.
func (s *ProjectService) Create(ctx context.Context, actorID uint, in ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("project name is required: %w", ErrValidation)
	}

	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
	}

	err := s.store.Atomic(ctx, func(tx Store) error {
		if err := tx.CreateProject(ctx, project); err != nil {
			return err
		}

		return tx.CreateMembership(ctx, &models.ProjectMembership{
			UserID:    actorID,
			ProjectID: project.ID,
			Role:      types.RoleAdmin,
		})
	})

	if err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, actorID, projectID uint) (*models.Project, error) {
	project, err := s.store.ProjectByID(ctx, projectID)

	if err != nil {
		return nil, err
	}

	if _, err := s.requireMember(ctx, s.store, projectID, actorID); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) ProjectsFor(ctx context.Context, actorID uint) ([]models.Project, error) {
	return s.store.ProjectsByMember(ctx, actorID)
}

func (s *ProjectService) Update(ctx context.Context, actorID, projectID uint, in ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("project name is required: %w", ErrValidation)
	}

	var project *models.Project

	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error

		project, err = tx.ProjectByID(ctx, projectID)

		if err != nil {
			return err
		}

		if _, err := s.requireAdmin(ctx, tx, projectID, actorID); err != nil {
			return err
		}

		project.Name = in.Name
		project.Description = in.Description
		project.StartDate = in.StartDate

		return tx.UpdateProject(ctx, project)
	})

	if err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes the project, its tasks, and (via the membership foreign key)
// its memberships. History rows are retained as an append-only ledger.
func (s *ProjectService) Delete(ctx context.Context, actorID, projectID uint) error {
	return s.store.Atomic(ctx, func(tx Store) error {
		if _, err := tx.ProjectByID(ctx, projectID); err != nil {
			return err
		}

		if _, err := s.requireAdmin(ctx, tx, projectID, actorID); err != nil {
			return err
		}

		if err := tx.DeleteTasksByProject(ctx, projectID); err != nil {
			return err
		}

		return tx.DeleteProject(ctx, projectID)
	})
}

// Invite adds the user with the given email to the project. Only ADMIN
// members may invite; the invitation email and notification are dispatched
// after the membership write has committed and never fail it.
func (s *ProjectService) Invite(ctx context.Context, actorID, projectID uint, email string, role types.Role) (*models.ProjectMembership, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("a valid role is required: %w", ErrValidation)
	}

	var (
		membership *models.ProjectMembership
		project    *models.Project
		invitee    *models.User
		inviter    *models.User
	)

	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error

		project, err = tx.ProjectByID(ctx, projectID)

		if err != nil {
			return err
		}

		actor, err := s.requireAdmin(ctx, tx, projectID, actorID)

		if err != nil {
			return err
		}

		inviter, err = tx.UserByID(ctx, actor.UserID)

		if err != nil {
			return err
		}

		invitee, err = tx.UserByEmail(ctx, email)

		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("user with email %s: %w", email, ErrNotFound)
			}
			return err
		}

		if _, err := tx.MembershipByProjectAndUser(ctx, projectID, invitee.ID); err == nil {
			return fmt.Errorf("user is already a member of this project: %w", ErrConflict)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		membership = &models.ProjectMembership{
			UserID:    invitee.ID,
			ProjectID: projectID,
			Role:      role,
		}

		return tx.CreateMembership(ctx, membership)
	})

	if err != nil {
		return nil, err
	}

	s.mailer.SendProjectInvitation(invitee.Email, project.Name, inviter.Name)

	notification := &models.Notification{
		MembershipID: membership.ID,
		Message:      fmt.Sprintf("%s invited you to join project %q", inviter.Name, project.Name),
	}

	if err := s.store.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to record invitation notification: %v", err)
	}

	if s.notifier != nil {
		s.notifier.ProjectEvent(projectID, "member_invited", fmt.Sprintf("%s joined project %q", invitee.Name, project.Name))
	}

	return membership, nil
}

func (s *ProjectService) UpdateRole(ctx context.Context, actorID, projectID, targetUserID uint, role types.Role) (*models.ProjectMembership, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("a valid role is required: %w", ErrValidation)
	}

	var membership *models.ProjectMembership

	err := s.store.Atomic(ctx, func(tx Store) error {
		if _, err := s.requireAdmin(ctx, tx, projectID, actorID); err != nil {
			return err
		}

		var err error

		membership, err = tx.MembershipByProjectAndUser(ctx, projectID, targetUserID)

		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("member not found in project: %w", ErrNotFound)
			}
			return err
		}

		membership.Role = role

		return tx.UpdateMembership(ctx, membership)
	})

	if err != nil {
		return nil, err
	}

	return membership, nil
}

// RemoveMember deletes the target membership. Removal requires ADMIN, the
// same bar as invite and role changes. A membership that still holds tasks
// cannot be removed: tasks must be reassigned or deleted first, so a task
// never outlives its assignee.
func (s *ProjectService) RemoveMember(ctx context.Context, actorID, projectID, targetUserID uint) error {
	return s.store.Atomic(ctx, func(tx Store) error {
		if _, err := s.requireAdmin(ctx, tx, projectID, actorID); err != nil {
			return err
		}

		membership, err := tx.MembershipByProjectAndUser(ctx, projectID, targetUserID)

		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("member not found in project: %w", ErrNotFound)
			}
			return err
		}

		held, err := tx.CountTasksByMembership(ctx, membership.ID)

		if err != nil {
			return err
		}

		if held > 0 {
			return fmt.Errorf("the member still holds tasks in this project; reassign or delete them first: %w", ErrConflict)
		}

		return tx.DeleteMembership(ctx, membership.ID)
	})
}

func (s *ProjectService) Members(ctx context.Context, actorID, projectID uint) ([]models.ProjectMembership, error) {
	if _, err := s.store.ProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	if _, err := s.requireMember(ctx, s.store, projectID, actorID); err != nil {
		return nil, err
	}

	return s.store.MembershipsByProject(ctx, projectID)
}

func (s *ProjectService) MembersWithUserInfo(ctx context.Context, actorID, projectID uint) ([]MemberInfo, error) {
	members, err := s.Members(ctx, actorID, projectID)

	if err != nil {
		return nil, err
	}

	infos := make([]MemberInfo, 0, len(members))

	for _, member := range members {
		info := MemberInfo{
			ProjectID: member.ProjectID,
			UserID:    member.UserID,
			Role:      member.Role,
		}

		if user, err := s.store.UserByID(ctx, member.UserID); err == nil {
			info.Email = user.Email
			info.Name = user.Name
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// RoleOf resolves the actor's role in the project; absent memberships wrap
// ErrNotFound.
func (s *ProjectService) RoleOf(ctx context.Context, projectID, userID uint) (types.Role, error) {
	membership, err := s.store.MembershipByProjectAndUser(ctx, projectID, userID)

	if err != nil {
		return "", err
	}

	return membership.Role, nil
}

// requireMember fails closed: a missing membership is a denial, not a lookup
// miss.
func (s *ProjectService) requireMember(ctx context.Context, tx Store, projectID, userID uint) (*models.ProjectMembership, error) {
	membership, err := tx.MembershipByProjectAndUser(ctx, projectID, userID)

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("you are not a member of this project: %w", ErrForbidden)
		}
		return nil, err
	}

	return membership, nil
}

func (s *ProjectService) requireAdmin(ctx context.Context, tx Store, projectID, userID uint) (*models.ProjectMembership, error) {
	membership, err := s.requireMember(ctx, tx, projectID, userID)

	if err != nil {
		return nil, err
	}

	if !membership.Role.IsAdmin() {
		return nil, fmt.Errorf("only project administrators may do this: %w", ErrForbidden)
	}

	return membership, nil
}

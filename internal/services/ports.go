package services

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// Store is the persistence port the services run against. The GORM
// implementation lives in internal/store; tests use an in-memory fake.
//
// Lookup methods wrap ErrNotFound when the row is absent; writes that hit a
// uniqueness constraint wrap ErrConflict.
type Store interface {
	// Atomic runs fn against a transaction-scoped Store. All writes inside
	// fn commit or roll back together.
	Atomic(ctx context.Context, fn func(Store) error) error

	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateProject(ctx context.Context, project *models.Project) error
	ProjectByID(ctx context.Context, id uint) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id uint) error
	ProjectsByMember(ctx context.Context, userID uint) ([]models.Project, error)

	CreateMembership(ctx context.Context, membership *models.ProjectMembership) error
	MembershipByID(ctx context.Context, id uint) (*models.ProjectMembership, error)
	MembershipByProjectAndUser(ctx context.Context, projectID, userID uint) (*models.ProjectMembership, error)
	MembershipsByProject(ctx context.Context, projectID uint) ([]models.ProjectMembership, error)
	UpdateMembership(ctx context.Context, membership *models.ProjectMembership) error
	DeleteMembership(ctx context.Context, id uint) error

	CreateTask(ctx context.Context, task *models.Task) error
	TaskByID(ctx context.Context, id uint) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id uint) error
	DeleteTasksByProject(ctx context.Context, projectID uint) error
	CountTasksByMembership(ctx context.Context, membershipID uint) (int64, error)
	AllTasks(ctx context.Context) ([]models.Task, error)
	TasksByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	TasksByProjectAndStatus(ctx context.Context, projectID uint, status types.TaskStatus) ([]models.Task, error)
	TasksByAssignedUser(ctx context.Context, userID uint) ([]models.Task, error)

	AppendHistory(ctx context.Context, entry *models.TaskHistory) error
	HistoryByTask(ctx context.Context, taskID uint) ([]models.TaskHistory, error)

	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// Mailer is the outbound email sink. Delivery is an external concern; the
// default implementation only logs. Calls are fire-and-forget and must never
// fail the mutation that triggered them.
type Mailer interface {
	SendProjectInvitation(email, projectName, inviterName string)
	SendTaskAssignment(email, taskName, projectName string)
}

// Notifier pushes a project-scoped event to live listeners after a mutation
// has committed.
type Notifier interface {
	ProjectEvent(projectID uint, event, message string)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/datatypes"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

type TaskService struct {
	store    Store
	mailer   Mailer
	notifier Notifier
}

func NewTaskService(store Store, mailer Mailer, notifier Notifier) *TaskService {
	return &TaskService{
		store:    store,
		mailer:   mailer,
		notifier: notifier,
	}
}

type CreateTaskInput struct {
	ProjectID   uint
	Name        string
	Description string
	Priority    types.TaskPriority // defaults to MEDIUM when empty
	DueDate     *datatypes.Date
}

type UpdateTaskInput struct {
	Name        string
	Description string
	Status      types.TaskStatus
	Priority    types.TaskPriority
	DueDate     *datatypes.Date
	EndDate     *datatypes.Date
}

type AssignTaskInput struct {
	ProjectID uint
	UserID    uint
}

// Create makes a new task assigned to the creator's membership. New tasks
// start as TODO; priority defaults to MEDIUM. Creation is recorded as a
// history entry on the name field with a nil old value.
func (s *TaskService) Create(ctx context.Context, actorID uint, in CreateTaskInput) (*models.Task, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("task name is required: %w", ErrValidation)
	}

	priority := in.Priority

	if priority == "" {
		priority = types.PriorityMedium
	}

	if !priority.Valid() {
		return nil, fmt.Errorf("invalid task priority %q: %w", priority, ErrValidation)
	}

	var task *models.Task

	err := s.store.Atomic(ctx, func(tx Store) error {
		member, err := s.mutatingMember(ctx, tx, in.ProjectID, actorID)

		if err != nil {
			return err
		}

		task = &models.Task{
			Name:         in.Name,
			Description:  in.Description,
			Status:       types.StatusTodo,
			Priority:     priority,
			DueDate:      in.DueDate,
			MembershipID: member.ID,
		}

		if err := tx.CreateTask(ctx, task); err != nil {
			return err
		}

		return tx.AppendHistory(ctx, &models.TaskHistory{
			TaskID:       task.ID,
			MembershipID: member.ID,
			FieldName:    types.FieldTaskName,
			OldValue:     nil,
			NewValue:     strValue(task.Name),
		})
	})

	if err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies the full new value set to the task. Each of the six tracked
// fields that differs (null-safe) produces one history entry, written before
// the task row itself is updated; identical values write nothing.
func (s *TaskService) Update(ctx context.Context, actorID, taskID uint, in UpdateTaskInput) (*models.Task, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("task name is required: %w", ErrValidation)
	}

	if !in.Status.Valid() {
		return nil, fmt.Errorf("invalid task status %q: %w", in.Status, ErrValidation)
	}

	if !in.Priority.Valid() {
		return nil, fmt.Errorf("invalid task priority %q: %w", in.Priority, ErrValidation)
	}

	var task *models.Task

	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error

		task, err = tx.TaskByID(ctx, taskID)

		if err != nil {
			return err
		}

		owner, err := tx.MembershipByID(ctx, task.MembershipID)

		if err != nil {
			return err
		}

		actor, err := s.mutatingMember(ctx, tx, owner.ProjectID, actorID)

		if err != nil {
			return err
		}

		type change struct {
			field    types.FieldName
			old, new *string
		}

		var changes []change

		record := func(field types.FieldName, oldValue, newValue *string) {
			if !ptrEqual(oldValue, newValue) {
				changes = append(changes, change{field, oldValue, newValue})
			}
		}

		record(types.FieldTaskName, strValue(task.Name), strValue(in.Name))
		record(types.FieldDescription, strValue(task.Description), strValue(in.Description))
		record(types.FieldStatus, strValue(string(task.Status)), strValue(string(in.Status)))
		record(types.FieldPriority, strValue(string(task.Priority)), strValue(string(in.Priority)))
		record(types.FieldDueDate, DateString(task.DueDate), DateString(in.DueDate))
		record(types.FieldEndDate, DateString(task.EndDate), DateString(in.EndDate))

		if len(changes) == 0 {
			return nil
		}

		for _, c := range changes {
			entry := &models.TaskHistory{
				TaskID:       task.ID,
				MembershipID: actor.ID,
				FieldName:    c.field,
				OldValue:     c.old,
				NewValue:     c.new,
			}

			if err := tx.AppendHistory(ctx, entry); err != nil {
				return err
			}
		}

		task.Name = in.Name
		task.Description = in.Description
		task.Status = in.Status
		task.Priority = in.Priority
		task.DueDate = in.DueDate
		task.EndDate = in.EndDate

		return tx.UpdateTask(ctx, task)
	})

	if err != nil {
		return nil, err
	}

	return task, nil
}

// Assign moves the task to another membership of the same project and records
// the change as an assignee history entry valued with member emails.
// Cross-project assignment is rejected without touching the task.
func (s *TaskService) Assign(ctx context.Context, actorID, taskID uint, in AssignTaskInput) (*models.Task, error) {
	var (
		task      *models.Task
		project   *models.Project
		assignee  *models.ProjectMembership
		newHolder *models.User
	)

	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error

		task, err = tx.TaskByID(ctx, taskID)

		if err != nil {
			return err
		}

		owner, err := tx.MembershipByID(ctx, task.MembershipID)

		if err != nil {
			return err
		}

		actor, err := s.mutatingMember(ctx, tx, owner.ProjectID, actorID)

		if err != nil {
			return err
		}

		assignee, err = tx.MembershipByProjectAndUser(ctx, in.ProjectID, in.UserID)

		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("the user is not a member of this project: %w", ErrValidation)
			}
			return err
		}

		if assignee.ProjectID != owner.ProjectID {
			return fmt.Errorf("the assignee must belong to the same project as the task: %w", ErrValidation)
		}

		previousHolder, err := tx.UserByID(ctx, owner.UserID)

		if err != nil {
			return err
		}

		newHolder, err = tx.UserByID(ctx, assignee.UserID)

		if err != nil {
			return err
		}

		project, err = tx.ProjectByID(ctx, owner.ProjectID)

		if err != nil {
			return err
		}

		task.MembershipID = assignee.ID

		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}

		return tx.AppendHistory(ctx, &models.TaskHistory{
			TaskID:       task.ID,
			MembershipID: actor.ID,
			FieldName:    types.FieldAssignee,
			OldValue:     strValue(previousHolder.Email),
			NewValue:     strValue(newHolder.Email),
		})
	})

	if err != nil {
		return nil, err
	}

	s.mailer.SendTaskAssignment(newHolder.Email, task.Name, project.Name)

	assignedTaskID := task.ID

	notification := &models.Notification{
		MembershipID: assignee.ID,
		TaskID:       &assignedTaskID,
		Message:      fmt.Sprintf("You were assigned task %q in project %q", task.Name, project.Name),
	}

	if err := s.store.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to record assignment notification: %v", err)
	}

	if s.notifier != nil {
		s.notifier.ProjectEvent(project.ID, "task_assigned", fmt.Sprintf("Task %q assigned to %s", task.Name, newHolder.Name))
	}

	return task, nil
}

// Delete hard-deletes the task. History rows referencing it are kept: the
// ledger outlives its subject.
func (s *TaskService) Delete(ctx context.Context, actorID, taskID uint) error {
	return s.store.Atomic(ctx, func(tx Store) error {
		task, err := tx.TaskByID(ctx, taskID)

		if err != nil {
			return err
		}

		owner, err := tx.MembershipByID(ctx, task.MembershipID)

		if err != nil {
			return err
		}

		if _, err := s.mutatingMember(ctx, tx, owner.ProjectID, actorID); err != nil {
			return err
		}

		return tx.DeleteTask(ctx, task.ID)
	})
}

// Get returns the task when the actor is a member (any role) of its project.
func (s *TaskService) Get(ctx context.Context, actorID, taskID uint) (*models.Task, error) {
	task, err := s.store.TaskByID(ctx, taskID)

	if err != nil {
		return nil, err
	}

	owner, err := s.store.MembershipByID(ctx, task.MembershipID)

	if err != nil {
		return nil, err
	}

	if _, err := s.memberOf(ctx, s.store, owner.ProjectID, actorID); err != nil {
		return nil, err
	}

	return task, nil
}

// History lists the task's change entries newest first. Any role of the
// task's project may read it, OBSERVER included.
func (s *TaskService) History(ctx context.Context, actorID, taskID uint) ([]models.TaskHistory, error) {
	task, err := s.store.TaskByID(ctx, taskID)

	if err != nil {
		return nil, err
	}

	owner, err := s.store.MembershipByID(ctx, task.MembershipID)

	if err != nil {
		return nil, err
	}

	if _, err := s.memberOf(ctx, s.store, owner.ProjectID, actorID); err != nil {
		return nil, err
	}

	return s.store.HistoryByTask(ctx, taskID)
}

func (s *TaskService) All(ctx context.Context) ([]models.Task, error) {
	return s.store.AllTasks(ctx)
}

func (s *TaskService) ByProject(ctx context.Context, actorID, projectID uint) ([]models.Task, error) {
	if _, err := s.store.ProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	if _, err := s.memberOf(ctx, s.store, projectID, actorID); err != nil {
		return nil, err
	}

	return s.store.TasksByProject(ctx, projectID)
}

func (s *TaskService) ByProjectAndStatus(ctx context.Context, actorID, projectID uint, status types.TaskStatus) ([]models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid task status %q: %w", status, ErrValidation)
	}

	if _, err := s.store.ProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	if _, err := s.memberOf(ctx, s.store, projectID, actorID); err != nil {
		return nil, err
	}

	return s.store.TasksByProjectAndStatus(ctx, projectID, status)
}

func (s *TaskService) ByAssignedUser(ctx context.Context, userID uint) ([]models.Task, error) {
	return s.store.TasksByAssignedUser(ctx, userID)
}

func (s *TaskService) memberOf(ctx context.Context, tx Store, projectID, userID uint) (*models.ProjectMembership, error) {
	membership, err := tx.MembershipByProjectAndUser(ctx, projectID, userID)

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("you are not a member of this project: %w", ErrForbidden)
		}
		return nil, err
	}

	return membership, nil
}

func (s *TaskService) mutatingMember(ctx context.Context, tx Store, projectID, userID uint) (*models.ProjectMembership, error) {
	membership, err := s.memberOf(ctx, tx, projectID, userID)

	if err != nil {
		return nil, err
	}

	if !membership.Role.CanMutate() {
		return nil, fmt.Errorf("you must be a member or administrator of the project: %w", ErrForbidden)
	}

	return membership, nil
}

package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/services"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// fakeStore is an in-memory implementation of the services persistence port.
// Atomic runs the callback against the same store; rollback is not simulated,
// but injected write failures let tests assert that side effects stay behind
// the commit.
type fakeStore struct {
	mu sync.Mutex

	nextID uint

	users         map[uint]*models.User
	projects      map[uint]*models.Project
	memberships   map[uint]*models.ProjectMembership
	tasks         map[uint]*models.Task
	history       []models.TaskHistory
	notifications []models.Notification

	failAppendHistory bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uint]*models.User),
		projects:    make(map[uint]*models.Project),
		memberships: make(map[uint]*models.ProjectMembership),
		tasks:       make(map[uint]*models.Task),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, services.ErrNotFound)
}

func (f *fakeStore) Atomic(ctx context.Context, fn func(services.Store) error) error {
	return fn(f)
}

func (f *fakeStore) UserByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, notFound("user")
	}

	copied := *user
	return &copied, nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}

	return nil, notFound("user")
}

func (f *fakeStore) CreateProject(_ context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	project.ID = f.id()
	copied := *project
	f.projects[project.ID] = &copied

	return nil
}

func (f *fakeStore) ProjectByID(_ context.Context, id uint) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	project, ok := f.projects[id]
	if !ok {
		return nil, notFound("project")
	}

	copied := *project
	return &copied, nil
}

func (f *fakeStore) UpdateProject(_ context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.projects[project.ID]; !ok {
		return notFound("project")
	}

	copied := *project
	f.projects[project.ID] = &copied

	return nil
}

func (f *fakeStore) DeleteProject(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.projects, id)

	for memberID, membership := range f.memberships {
		if membership.ProjectID == id {
			delete(f.memberships, memberID)
		}
	}

	return nil
}

func (f *fakeStore) ProjectsByMember(_ context.Context, userID uint) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var projects []models.Project

	for _, membership := range f.memberships {
		if membership.UserID == userID {
			if project, ok := f.projects[membership.ProjectID]; ok {
				projects = append(projects, *project)
			}
		}
	}

	return projects, nil
}

func (f *fakeStore) CreateMembership(_ context.Context, membership *models.ProjectMembership) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.memberships {
		if existing.ProjectID == membership.ProjectID && existing.UserID == membership.UserID {
			return fmt.Errorf("membership: %w", services.ErrConflict)
		}
	}

	membership.ID = f.id()
	copied := *membership
	f.memberships[membership.ID] = &copied

	return nil
}

func (f *fakeStore) MembershipByID(_ context.Context, id uint) (*models.ProjectMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	membership, ok := f.memberships[id]
	if !ok {
		return nil, notFound("membership")
	}

	copied := *membership
	return &copied, nil
}

func (f *fakeStore) MembershipByProjectAndUser(_ context.Context, projectID, userID uint) (*models.ProjectMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, membership := range f.memberships {
		if membership.ProjectID == projectID && membership.UserID == userID {
			copied := *membership
			return &copied, nil
		}
	}

	return nil, notFound("membership")
}

func (f *fakeStore) MembershipsByProject(_ context.Context, projectID uint) ([]models.ProjectMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var memberships []models.ProjectMembership

	for _, membership := range f.memberships {
		if membership.ProjectID == projectID {
			memberships = append(memberships, *membership)
		}
	}

	sort.Slice(memberships, func(i, j int) bool { return memberships[i].ID < memberships[j].ID })

	return memberships, nil
}

func (f *fakeStore) UpdateMembership(_ context.Context, membership *models.ProjectMembership) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.memberships[membership.ID]; !ok {
		return notFound("membership")
	}

	copied := *membership
	f.memberships[membership.ID] = &copied

	return nil
}

func (f *fakeStore) DeleteMembership(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.memberships[id]; !ok {
		return notFound("membership")
	}

	delete(f.memberships, id)

	return nil
}

func (f *fakeStore) CreateTask(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task.ID = f.id()
	copied := *task
	f.tasks[task.ID] = &copied

	return nil
}

func (f *fakeStore) TaskByID(_ context.Context, id uint) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[id]
	if !ok {
		return nil, notFound("task")
	}

	copied := *task
	return &copied, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[task.ID]; !ok {
		return notFound("task")
	}

	copied := *task
	f.tasks[task.ID] = &copied

	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[id]; !ok {
		return notFound("task")
	}

	delete(f.tasks, id)

	return nil
}

func (f *fakeStore) DeleteTasksByProject(_ context.Context, projectID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for taskID, task := range f.tasks {
		if membership, ok := f.memberships[task.MembershipID]; ok && membership.ProjectID == projectID {
			delete(f.tasks, taskID)
		}
	}

	return nil
}

func (f *fakeStore) CountTasksByMembership(_ context.Context, membershipID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64

	for _, task := range f.tasks {
		if task.MembershipID == membershipID {
			count++
		}
	}

	return count, nil
}

func (f *fakeStore) AllTasks(_ context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var tasks []models.Task

	for _, task := range f.tasks {
		tasks = append(tasks, *task)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}

func (f *fakeStore) TasksByProject(_ context.Context, projectID uint) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var tasks []models.Task

	for _, task := range f.tasks {
		if membership, ok := f.memberships[task.MembershipID]; ok && membership.ProjectID == projectID {
			tasks = append(tasks, *task)
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}

func (f *fakeStore) TasksByProjectAndStatus(ctx context.Context, projectID uint, status types.TaskStatus) ([]models.Task, error) {
	tasks, err := f.TasksByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	filtered := tasks[:0]

	for _, task := range tasks {
		if task.Status == status {
			filtered = append(filtered, task)
		}
	}

	return filtered, nil
}

func (f *fakeStore) TasksByAssignedUser(_ context.Context, userID uint) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var tasks []models.Task

	for _, task := range f.tasks {
		if membership, ok := f.memberships[task.MembershipID]; ok && membership.UserID == userID {
			tasks = append(tasks, *task)
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}

func (f *fakeStore) AppendHistory(_ context.Context, entry *models.TaskHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAppendHistory {
		return errors.New("history write failed")
	}

	entry.ID = f.id()
	entry.CreatedAt = time.Now()
	f.history = append(f.history, *entry)

	return nil
}

func (f *fakeStore) HistoryByTask(_ context.Context, taskID uint) ([]models.TaskHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var entries []models.TaskHistory

	for _, entry := range f.history {
		if entry.TaskID == taskID {
			entries = append(entries, entry)
		}
	}

	// Newest first; timestamp ties broken by id descending.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

func (f *fakeStore) CreateNotification(_ context.Context, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification.ID = f.id()
	f.notifications = append(f.notifications, *notification)

	return nil
}

type fakeMailer struct {
	mu          sync.Mutex
	invitations []string
	assignments []string
}

func (m *fakeMailer) SendProjectInvitation(email, projectName, inviterName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invitations = append(m.invitations, email)
}

func (m *fakeMailer) SendTaskAssignment(email, taskName, projectName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.assignments = append(m.assignments, email)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) ProjectEvent(projectID uint, event, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, event)
}

type fixture struct {
	store    *fakeStore
	mailer   *fakeMailer
	notifier *fakeNotifier
	projects *services.ProjectService
	tasks    *services.TaskService
}

func newFixture() *fixture {
	store := newFakeStore()
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}

	return &fixture{
		store:    store,
		mailer:   mailer,
		notifier: notifier,
		projects: services.NewProjectService(store, mailer, notifier),
		tasks:    services.NewTaskService(store, mailer, notifier),
	}
}

func (f *fixture) addUser(t *testing.T, name, email string) *models.User {
	t.Helper()

	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	user := &models.User{Name: name, Email: email, PasswordHash: "x"}
	user.ID = f.store.id()
	f.store.users[user.ID] = user

	return user
}

func (f *fixture) addMembership(t *testing.T, projectID, userID uint, role types.Role) *models.ProjectMembership {
	t.Helper()

	membership := &models.ProjectMembership{ProjectID: projectID, UserID: userID, Role: role}

	if err := f.store.CreateMembership(context.Background(), membership); err != nil {
		t.Fatalf("failed to prepare membership: %v", err)
	}

	return membership
}

// newProject creates the project through the service so the creator ends up
// enrolled as ADMIN, which is what every scenario starts from.
func (f *fixture) newProject(t *testing.T, creatorID uint, name string) *models.Project {
	t.Helper()

	project, err := f.projects.Create(context.Background(), creatorID, services.ProjectInput{Name: name})

	if err != nil {
		t.Fatalf("failed to prepare project: %v", err)
	}

	return project
}

func (f *fixture) historyFor(taskID uint) []models.TaskHistory {
	entries, _ := f.store.HistoryByTask(context.Background(), taskID)
	return entries
}

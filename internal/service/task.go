package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/metrics"
	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/repository"
)

// Task service errors.
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrForbidden      = errors.New("task belongs to another user")
	ErrTitleRequired  = errors.New("title is required")
	ErrInvalidStatus  = errors.New("status is not valid")
	ErrStatusRequired = errors.New("status is required")
)

// TaskStore is the resource store collaborator.
// Implemented by *repository.Repository.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID string) ([]*model.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// UserCache is a read-through cache for resolved user records.
// Entries never carry credentials; misses fall back to the UserStore.
type UserCache interface {
	GetUser(ctx context.Context, cacheKey string) (*model.User, error)
	SetUser(ctx context.Context, cacheKey string, user *model.User) error
}

// TaskService enforces that only a task's owner may read or mutate it.
// Every operation takes the already-authenticated identity email produced
// by the authentication middleware.
type TaskService struct {
	users   UserStore
	tasks   TaskStore
	cache   UserCache
	metrics metrics.Recorder
}

// NewTaskService creates a TaskService.
// cache may be nil; identity resolution then always hits the store.
func NewTaskService(users UserStore, tasks TaskStore, cache UserCache, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		users:   users,
		tasks:   tasks,
		cache:   cache,
		metrics: recorder,
	}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
}

// CreateTask persists a new task owned by the resolved user.
// Status defaults to OPEN when unspecified.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput, email string) (*model.Task, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = model.TaskStatusOpen
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		OwnerID:     user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()

	return task, nil
}

// ListTasks returns all tasks owned by the resolved user, in store order.
func (s *TaskService) ListTasks(ctx context.Context, email string) ([]*model.Task, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasksByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask changes a task's status after the ownership check.
// Existence is checked before ownership, so probing a missing id reports
// ErrTaskNotFound even for non-owners.
func (s *TaskService) UpdateTask(ctx context.Context, id string, status model.TaskStatus, email string) (*model.Task, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if status == "" {
		return nil, ErrStatusRequired
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.loadOwnedTask(ctx, id, user)
	if err != nil {
		return nil, err
	}

	updated, err := s.tasks.UpdateTaskStatus(ctx, task.ID, status)
	if err != nil {
		// The task can disappear between the ownership check and the write.
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()

	return updated, nil
}

// DeleteTask removes a task after the ownership check.
func (s *TaskService) DeleteTask(ctx context.Context, id string, email string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	task, err := s.loadOwnedTask(ctx, id, user)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteTask(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()

	return nil
}

// loadOwnedTask loads a task and verifies the caller owns it.
func (s *TaskService) loadOwnedTask(ctx context.Context, id string, user *model.User) (*model.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	if task.OwnerID != user.ID {
		s.metrics.IncOwnershipDenied()
		return nil, ErrForbidden
	}

	return task, nil
}

// resolveUser maps the authenticated email to a user record.
// The cache is consulted first; user records are immutable after
// registration so a hit can never be stale.
func (s *TaskService) resolveUser(ctx context.Context, email string) (*model.User, error) {
	cacheKey := auth.QuickHash(email)

	if s.cache != nil {
		if cached, _ := s.cache.GetUser(ctx, cacheKey); cached != nil {
			return cached, nil
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetUser(ctx, cacheKey, user)
	}

	return user, nil
}

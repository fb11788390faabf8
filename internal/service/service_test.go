package service

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/token"
)

// fakeUserStore is an in-memory UserStore for tests.
type fakeUserStore struct {
	byEmail map[string]*model.User
	lookups int
	failAll bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrEmailExists
	}
	clone := *user
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.lookups++
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// fakeTaskStore is an in-memory TaskStore for tests.
type fakeTaskStore struct {
	tasks map[string]*model.Task
	order []string
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]*model.Task)}
}

func (f *fakeTaskStore) CreateTask(_ context.Context, task *model.Task) error {
	clone := *task
	f.tasks[task.ID] = &clone
	f.order = append(f.order, task.ID)
	return nil
}

func (f *fakeTaskStore) GetTaskByID(_ context.Context, id string) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (f *fakeTaskStore) ListTasksByOwner(_ context.Context, ownerID string) ([]*model.Task, error) {
	var out []*model.Task
	for _, id := range f.order {
		if task, ok := f.tasks[id]; ok && task.OwnerID == ownerID {
			clone := *task
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) UpdateTaskStatus(_ context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	clone := *task
	return &clone, nil
}

func (f *fakeTaskStore) DeleteTask(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

// fakeUserCache is an in-memory UserCache for tests.
type fakeUserCache struct {
	entries map[string]*model.User
	hits    int
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: make(map[string]*model.User)}
}

func (f *fakeUserCache) GetUser(_ context.Context, cacheKey string) (*model.User, error) {
	user, ok := f.entries[cacheKey]
	if !ok {
		return nil, nil
	}
	f.hits++
	clone := *user
	return &clone, nil
}

func (f *fakeUserCache) SetUser(_ context.Context, cacheKey string, user *model.User) error {
	clone := *user
	clone.PasswordHash = ""
	f.entries[cacheKey] = &clone
	return nil
}

// newTestCodec builds a token codec with a short test secret.
func newTestCodec() *token.Codec {
	c, err := token.NewCodec("service-test-secret", 10*time.Minute)
	if err != nil {
		panic(err)
	}
	return c
}

// newTestAuthService wires an AuthService over fakes.
func newTestAuthService(users *fakeUserStore) (*AuthService, *session.Registry) {
	registry := session.NewRegistry()
	return NewAuthService(users, nil, newTestCodec(), registry, nil), registry
}

// registerUser registers a user through the service and returns the session.
func registerUser(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, svc *AuthService, name, email, password string) *Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return sess
}

// seedUser inserts a user directly into the fake store.
func seedUser(store *fakeUserStore, id, name, email, password string) *model.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := &model.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	store.byEmail[email] = user
	return user
}

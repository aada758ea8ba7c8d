package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// fakeTaskStore is an in-memory TaskStore backing the handler tests.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (f *fakeTaskStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	result := make([]*domain.Task, 0)
	for _, task := range f.tasks {
		if task.UserID == userID {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) GetByIDAndUser(_ context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) Update(_ context.Context, task *domain.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	existing, ok := f.tasks[id]
	if !ok || existing.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) WithTx(_ *sql.Tx) store.TaskStore { return f }

var _ store.TaskStore = (*fakeTaskStore)(nil)

// taskTestEnv wires a real router, auth middleware, task service, and fake
// store together, the same shape the server assembles in production.
type taskTestEnv struct {
	router *chi.Mux
	jwtSvc auth.JWTService
	tasks  *fakeTaskStore
}

func newTaskTestEnv(t *testing.T) *taskTestEnv {
	t.Helper()

	tasks := newFakeTaskStore()
	taskService, err := service.NewTaskService(tasks, nil)
	require.NoError(t, err)

	jwtSvc := auth.NewTestJWTService(testJWTSecret, 24*time.Hour, time.Now)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	taskHandler := NewTaskHandler(taskService)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/todos", taskHandler.List)
		r.Post("/todos", taskHandler.Create)
		r.Patch("/todos/{id}", taskHandler.Toggle)
		r.Put("/todos/{id}", taskHandler.Update)
		r.Delete("/todos/{id}", taskHandler.Delete)
	})

	return &taskTestEnv{router: router, jwtSvc: jwtSvc, tasks: tasks}
}

func (e *taskTestEnv) token(t *testing.T, userID uuid.UUID, username string) string {
	t.Helper()
	token, err := e.jwtSvc.GenerateToken(context.Background(), userID, username)
	require.NoError(t, err)
	return token
}

func (e *taskTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestTaskRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t)

	t.Run("missing token is 401", func(t *testing.T) {
		t.Parallel()
		rr := env.do(t, http.MethodGet, "/todos", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		t.Parallel()
		rr := env.do(t, http.MethodGet, "/todos", "garbage", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTaskCreateAndList(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t)
	userID := uuid.New()
	token := env.token(t, userID, "alice")

	t.Run("empty list serializes as json array", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/todos", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("create returns the task", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/todos", token, CreateTaskRequest{Text: "buy milk"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var task TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
		assert.Equal(t, "buy milk", task.Text)
		assert.Equal(t, userID, task.UserID)
		assert.False(t, task.Completed)
	})

	t.Run("missing text is 400 with fixed message", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/todos", token, CreateTaskRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to add todo")
	})

	t.Run("list shows only own tasks", func(t *testing.T) {
		otherToken := env.token(t, uuid.New(), "bob")
		rr := env.do(t, http.MethodPost, "/todos", otherToken, CreateTaskRequest{Text: "bob's task"})
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = env.do(t, http.MethodGet, "/todos", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var tasks []TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, "buy milk", tasks[0].Text)
	})
}

func TestTaskToggle(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t)
	userID := uuid.New()
	token := env.token(t, userID, "alice")

	created := env.do(t, http.MethodPost, "/todos", token, CreateTaskRequest{Text: "water plants"})
	require.Equal(t, http.StatusCreated, created.Code)
	var task TaskResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &task))

	t.Run("toggle flips completed", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, "/todos/"+task.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var toggled TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &toggled))
		assert.True(t, toggled.Completed)
	})

	t.Run("another user's task reads as 404", func(t *testing.T) {
		strangerToken := env.token(t, uuid.New(), "mallory")
		rr := env.do(t, http.MethodPatch, "/todos/"+task.ID.String(), strangerToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Todo not found")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, "/todos/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id is 400 with fixed message", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, "/todos/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error toggling todo")
	})
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t)
	userID := uuid.New()
	token := env.token(t, userID, "alice")

	created := env.do(t, http.MethodPost, "/todos", token, CreateTaskRequest{Text: "old text"})
	require.Equal(t, http.StatusCreated, created.Code)
	var task TaskResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &task))

	t.Run("update replaces text", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/todos/"+task.ID.String(), token,
			UpdateTaskRequest{Text: "new text"})
		require.Equal(t, http.StatusOK, rr.Code)

		var updated TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "new text", updated.Text)
	})

	t.Run("empty text is 400 with fixed message", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/todos/"+task.ID.String(), token, UpdateTaskRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error updating todo")
	})

	t.Run("another user's task reads as 404", func(t *testing.T) {
		strangerToken := env.token(t, uuid.New(), "mallory")
		rr := env.do(t, http.MethodPut, "/todos/"+task.ID.String(), strangerToken,
			UpdateTaskRequest{Text: "hijacked"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t)
	userID := uuid.New()
	token := env.token(t, userID, "alice")

	created := env.do(t, http.MethodPost, "/todos", token, CreateTaskRequest{Text: "take out trash"})
	require.Equal(t, http.StatusCreated, created.Code)
	var task TaskResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &task))

	t.Run("another user's delete is 404 and leaves the task", func(t *testing.T) {
		strangerToken := env.token(t, uuid.New(), "mallory")
		rr := env.do(t, http.MethodDelete, "/todos/"+task.ID.String(), strangerToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = env.do(t, http.MethodGet, "/todos", token, nil)
		var tasks []TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
		assert.Len(t, tasks, 1)
	})

	t.Run("owner delete returns confirmation", func(t *testing.T) {
		rr := env.do(t, http.MethodDelete, "/todos/"+task.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Todo deleted")
	})

	t.Run("deleting twice is 404", func(t *testing.T) {
		rr := env.do(t, http.MethodDelete, "/todos/"+task.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

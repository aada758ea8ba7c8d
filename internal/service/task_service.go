package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskService provides task operations scoped to the authenticated user.
//
// Every method takes the verified user ID from the session token and passes
// it into the store's joint (id, user_id) filters, so a task owned by one
// user is indistinguishable from a nonexistent task to everyone else.
type TaskService interface {
	// List returns all tasks owned by the user, in insertion order.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Create persists a new task for the user and returns it.
	// Returns domain.ErrTaskTextEmpty if the text is empty.
	Create(ctx context.Context, userID uuid.UUID, text string) (*domain.Task, error)

	// Toggle flips the completed flag of the user's task and returns the
	// updated record. Returns store.ErrTaskNotFound if the task does not
	// exist or belongs to another user.
	Toggle(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateText replaces the text of the user's task and returns the
	// updated record. The completed flag is unaffected. Returns
	// store.ErrTaskNotFound with the same non-owner semantics as Toggle,
	// or domain.ErrTaskTextEmpty if the new text is empty.
	UpdateText(ctx context.Context, userID, taskID uuid.UUID, text string) (*domain.Task, error)

	// Delete removes the user's task. Returns store.ErrTaskNotFound with
	// the same non-owner semantics as Toggle.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	text string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, text)
	if err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()))
	return task, nil
}

// Toggle implements TaskService.Toggle
func (s *taskServiceImpl) Toggle(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByIDAndUser(ctx, taskID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Absent and foreign tasks produce the same error.
			log.Debug("task not found for toggle",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		log.Error("failed to load task for toggle",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("toggle", "failed to load task", err)
	}

	task.ToggleCompleted()

	if err := s.taskStore.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to save toggled task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("toggle", "failed to save task", err)
	}

	log.Info("task toggled",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()),
		slog.Bool("completed", task.Completed))
	return task, nil
}

// UpdateText implements TaskService.UpdateText
func (s *taskServiceImpl) UpdateText(
	ctx context.Context,
	userID, taskID uuid.UUID,
	text string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByIDAndUser(ctx, taskID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for text update",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		log.Error("failed to load task for text update",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("update_text", "failed to load task", err)
	}

	if err := task.UpdateText(text); err != nil {
		log.Warn("task validation failed during text update",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to save updated task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("update_text", "failed to save task", err)
	}

	log.Info("task text updated",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, taskID, userID); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return err
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return NewTaskServiceError("delete", "failed to delete task", err)
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

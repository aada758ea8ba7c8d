package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read and write is scoped jointly by (task ID, owning user ID):
// a task must never be observable or mutable through another user's ID,
// even when the task ID itself is known.
type TaskStore interface {
	// ListByUser retrieves all tasks owned by the given user, in insertion
	// order. Returns an empty slice when the user owns no tasks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByIDAndUser retrieves a task by its ID, scoped to the owning user.
	// Returns ErrTaskNotFound if no task matches both the ID and the owner.
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task, scoped to the owning user.
	// Returns ErrTaskNotFound if no task matches both the ID and the owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID, scoped to the owning user.
	// Returns ErrTaskNotFound if no task matches both the ID and the owner.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}

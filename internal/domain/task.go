package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Task
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskTextEmpty   = errors.New("task text cannot be empty")
)

// Task represents a single to-do item owned by a user. Only the owning
// user may read, mutate, or delete it.
type Task struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user with the given text.
// It generates a new UUID for the task ID, marks the task as not completed,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, text string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if t.Text == "" {
		return ErrTaskTextEmpty
	}

	return nil
}

// ToggleCompleted flips the task's completed flag and updates the
// UpdatedAt timestamp. Toggling twice restores the original state.
func (t *Task) ToggleCompleted() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}

// UpdateText replaces the task's text and updates the UpdatedAt timestamp.
// The completed flag is unaffected. Returns an error if the new text is
// invalid.
func (t *Task) UpdateText(text string) error {
	if text == "" {
		return ErrTaskTextEmpty
	}

	t.Text = text
	t.UpdatedAt = time.Now().UTC()
	return nil
}

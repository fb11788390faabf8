package model

import "time"

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// IsValid checks if the status is one of the known workflow states.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusOpen || s == TaskStatusInProgress || s == TaskStatusDone
}

// Task represents a unit of work owned by a single user.
// OwnerID is set once at creation and never reassigned; title and
// description are fixed after creation, only Status changes.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusDeleted    TaskStatus = "deleted"
)

// IsValid reports whether s is one of the known statuses, deleted included.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusDeleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further mutation is allowed.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDeleted
}

// CanTransitionTo enforces the status state machine: pending, in_progress and
// completed move freely between each other, any of them may become deleted,
// and deleted has no outbound transitions.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s.IsTerminal() || !next.IsValid() {
		return false
	}
	return true
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 10000

	DefaultPageSize = 50
	MaxPageSize     = 100
)

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    TaskPriority
}

// UpdateTaskInput is a partial update. A nil pointer means the field was
// omitted. Description additionally carries DescriptionSet so that an explicit
// clear (null or empty) is distinguishable from an omitted field.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *TaskStatus
	Priority       *TaskPriority
}

// IsEmpty reports whether the update carries no field at all.
func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil && !in.DescriptionSet && in.Status == nil && in.Priority == nil
}

type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Limit    int
	Offset   int
}

type TaskPage struct {
	Tasks  []Task
	Total  int
	Limit  int
	Offset int
}

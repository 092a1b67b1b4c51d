package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

// Message keys attached to validation failures.
const (
	MsgTitleRequired       = "titleRequired"
	MsgTitleTooLong        = "titleTooLong"
	MsgDescriptionTooLong  = "descriptionTooLong"
	MsgInvalidPriority     = "invalidPriority"
	MsgInvalidStatus       = "invalidStatus"
	MsgInvalidOffset       = "invalidOffset"
	MsgNoFieldsToUpdate    = "noFieldsToUpdate"
	MsgDeleteThroughDelete = "deleteThroughDelete"
)

type TaskService struct {
	taskRepository ports.TaskRepository
}

func NewTaskService(taskRepository ports.TaskRepository) *TaskService {
	return &TaskService{taskRepository: taskRepository}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) (domain.TaskPage, error) {
	verr := domain.NewValidationError()
	if filter.Status != nil && (!filter.Status.IsValid() || filter.Status.IsTerminal()) {
		verr.Add("status", MsgInvalidStatus)
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		verr.Add("priority", MsgInvalidPriority)
	}
	if filter.Offset < 0 {
		verr.Add("offset", MsgInvalidOffset)
	}
	if verr.HasErrors() {
		return domain.TaskPage{}, verr
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = domain.DefaultPageSize
	case filter.Limit > domain.MaxPageSize:
		filter.Limit = domain.MaxPageSize
	}

	tasks, total, err := s.taskRepository.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return domain.TaskPage{}, err
	}

	return domain.TaskPage{
		Tasks:  tasks,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	verr := domain.NewValidationError()

	title, ok := normalizeTitle(input.Title, verr)
	if ok {
		input.Title = title
	}
	input.Description = normalizeDescription(input.Description, verr)

	if input.Priority == "" {
		input.Priority = domain.TaskPriorityMedium
	} else if !input.Priority.IsValid() {
		verr.Add("priority", MsgInvalidPriority)
	}

	if verr.HasErrors() {
		return domain.Task{}, verr
	}

	task, err := s.taskRepository.Create(ctx, ownerID, input)
	if err != nil {
		return domain.Task{}, err
	}

	zap.L().Info("task created", zap.String("owner_id", ownerID), zap.String("task_id", task.ID))
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	task, err := s.taskRepository.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	// Soft-deleted tasks stay in storage but are hidden from reads.
	if task.Status.IsTerminal() {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	current, err := s.taskRepository.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if current.Status.IsTerminal() {
		return domain.Task{}, domain.ErrInvalidState
	}

	verr := domain.NewValidationError()
	if input.IsEmpty() {
		verr.Add("body", MsgNoFieldsToUpdate)
	}

	if input.Title != nil {
		if title, ok := normalizeTitle(*input.Title, verr); ok {
			input.Title = &title
		}
	}

	if input.DescriptionSet {
		input.Description = normalizeDescription(input.Description, verr)
	}

	if input.Status != nil {
		switch {
		case *input.Status == domain.TaskStatusDeleted:
			verr.Add("status", MsgDeleteThroughDelete)
		case !current.Status.CanTransitionTo(*input.Status):
			verr.Add("status", MsgInvalidStatus)
		}
	}

	if input.Priority != nil && !input.Priority.IsValid() {
		verr.Add("priority", MsgInvalidPriority)
	}

	if verr.HasErrors() {
		return domain.Task{}, verr
	}

	task, err := s.taskRepository.Update(ctx, ownerID, taskID, input)
	if err != nil {
		return domain.Task{}, err
	}

	zap.L().Info("task updated", zap.String("owner_id", ownerID), zap.String("task_id", taskID))
	return task, nil
}

// DeleteTask soft deletes a task. A task that is already deleted is reported
// as not found, the same as a task that never existed.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	current, err := s.taskRepository.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	if current.Status.IsTerminal() {
		return domain.ErrTaskNotFound
	}

	if err := s.taskRepository.SoftDelete(ctx, ownerID, taskID); err != nil {
		return err
	}

	zap.L().Info("task deleted", zap.String("owner_id", ownerID), zap.String("task_id", taskID))
	return nil
}

func normalizeTitle(raw string, verr *domain.ValidationError) (string, bool) {
	title := strings.TrimSpace(raw)
	switch {
	case title == "":
		verr.Add("title", MsgTitleRequired)
		return "", false
	case utf8.RuneCountInString(title) > domain.MaxTitleLength:
		verr.Add("title", MsgTitleTooLong)
		return "", false
	}
	return title, true
}

// normalizeDescription trims the description. Empty or whitespace-only values
// become nil so that a clear is stored as NULL.
func normalizeDescription(raw *string, verr *domain.ValidationError) *string {
	if raw == nil {
		return nil
	}
	description := strings.TrimSpace(*raw)
	if description == "" {
		return nil
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		verr.Add("description", MsgDescriptionTooLong)
		return nil
	}
	return &description
}

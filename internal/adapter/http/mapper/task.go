package mapper

import (
	"time"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/dto"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID,
		OwnerID:   task.OwnerID,
		Title:     task.Title,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	return item
}

func ToTaskPage(page domain.TaskPage) dto.Response {
	response := dto.Success(ToTaskItems(page.Tasks))
	response.Meta = &dto.PageMeta{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	return response
}

func ToCurrentUser(identity domain.Identity) dto.CurrentUser {
	user := dto.CurrentUser{ID: identity.Subject, Email: identity.Email}
	if identity.Name != "" {
		name := identity.Name
		user.Name = &name
	}
	return user
}

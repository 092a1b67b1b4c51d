package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/dto"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/mapper"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/middleware"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/validation"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

const TaskIDParam = "task_id"

// maxTaskBodyBytes leaves room for a 10,000 character description in any
// UTF-8 encoding plus the other fields.
const maxTaskBodyBytes = 64 << 10

type TaskHandler struct {
	taskService  ports.TaskService
	retryBackoff time.Duration
}

func NewTaskHandler(taskService ports.TaskService, retryBackoff time.Duration) *TaskHandler {
	return &TaskHandler{taskService: taskService, retryBackoff: retryBackoff}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ownerID := c.Param(middleware.OwnerIDParam)

	filter, err := validation.BuildTaskFilter(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, toListAPIError(err, middleware.GetLang(c)), err, "invalid task filter")
		return
	}

	page, err := withStorageRetry(c.Request.Context(), h.retryBackoff, func(ctx context.Context) (domain.TaskPage, error) {
		return h.taskService.ListTasks(ctx, ownerID, filter)
	})
	if err != nil {
		h.respondError(c, toListAPIError(err, middleware.GetLang(c)), err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskPage(page))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID := c.Param(middleware.OwnerIDParam)

	body, err := readTaskBody(c)
	if err != nil {
		h.writeError(c, err, "failed to read body")
		return
	}

	input, err := validation.DecodeCreateTask(body)
	if err != nil {
		h.writeError(c, err, "invalid create payload")
		return
	}

	// Writes finish even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	task, err := withStorageRetry(ctx, h.retryBackoff, func(ctx context.Context) (domain.Task, error) {
		return h.taskService.CreateTask(ctx, ownerID, input)
	})
	if err != nil {
		h.writeError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(mapper.ToTaskItem(task)))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	ownerID := c.Param(middleware.OwnerIDParam)

	taskID, err := validation.ParseTaskID(c.Param(TaskIDParam))
	if err != nil {
		h.writeError(c, err, "invalid task id")
		return
	}

	task, err := withStorageRetry(c.Request.Context(), h.retryBackoff, func(ctx context.Context) (domain.Task, error) {
		return h.taskService.GetTask(ctx, ownerID, taskID)
	})
	if err != nil {
		h.writeError(c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, dto.Success(mapper.ToTaskItem(task)))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID := c.Param(middleware.OwnerIDParam)

	taskID, err := validation.ParseTaskID(c.Param(TaskIDParam))
	if err != nil {
		h.writeError(c, err, "invalid task id")
		return
	}

	body, err := readTaskBody(c)
	if err != nil {
		h.writeError(c, err, "failed to read body")
		return
	}

	input, err := validation.DecodeUpdateTask(body)
	if err != nil {
		h.writeError(c, err, "invalid update payload")
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	task, err := withStorageRetry(ctx, h.retryBackoff, func(ctx context.Context) (domain.Task, error) {
		return h.taskService.UpdateTask(ctx, ownerID, taskID, input)
	})
	if err != nil {
		h.writeError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, dto.Success(mapper.ToTaskItem(task)))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID := c.Param(middleware.OwnerIDParam)

	taskID, err := validation.ParseTaskID(c.Param(TaskIDParam))
	if err != nil {
		h.writeError(c, err, "invalid task id")
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	_, err = withStorageRetry(ctx, h.retryBackoff, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.taskService.DeleteTask(ctx, ownerID, taskID)
	})
	if err != nil {
		h.writeError(c, err, "failed to delete task")
		return
	}

	response := dto.Success(dto.DeletedTask{ID: taskID})
	response.Message = apierrors.GetTransErrorMsg(apierrors.MsgTaskDeleted, middleware.GetLang(c), nil)
	c.JSON(http.StatusOK, response)
}

func readTaskBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTaskBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		return nil, validation.ErrInvalidTaskPayload
	}
	return body, nil
}

func (h *TaskHandler) writeError(c *gin.Context, err error, logMessage string) {
	h.respondError(c, toAPIError(err, middleware.GetLang(c)), err, logMessage)
}

func (h *TaskHandler) respondError(c *gin.Context, apiErr apierrors.JsonErr, err error, logMessage string) {
	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		zap.L().Error(logMessage,
			zap.String("owner_id", c.Param(middleware.OwnerIDParam)),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	c.JSON(apiErr.HTTPStatus, apiErr)
}

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/dto"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/app/service"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidTaskID      = errors.New("invalid task id")
)

// DecodeCreateTask decodes and binds a creation body. The raw field map is
// kept so that an explicit null can be told apart from an absent field.
func DecodeCreateTask(body []byte) (domain.CreateTaskInput, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}

	var req dto.CreateTaskRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return domain.CreateTaskInput{}, FromBindingError(err)
	}

	return BuildCreateTaskInput(req, raw)
}

func DecodeUpdateTask(body []byte) (domain.UpdateTaskInput, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}

	var req dto.UpdateTaskRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return domain.UpdateTaskInput{}, FromBindingError(err)
	}

	return BuildUpdateTaskInput(req, raw)
}

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	verr := domain.NewValidationError()
	if isJSONNullField(raw, "priority") {
		verr.Add("priority", apierrors.MsgFieldNotNullable)
	}
	if verr.HasErrors() {
		return domain.CreateTaskInput{}, verr
	}

	input := domain.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		input.Priority = domain.TaskPriority(*req.Priority)
	}
	return input, nil
}

// BuildUpdateTaskInput maps a partial update. A description that is present
// and null clears it; title, status and priority may be absent but not null.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	verr := domain.NewValidationError()
	for _, field := range []string{"title", "status", "priority"} {
		if isJSONNullField(raw, field) {
			verr.Add(field, apierrors.MsgFieldNotNullable)
		}
	}
	if verr.HasErrors() {
		return domain.UpdateTaskInput{}, verr
	}

	input := domain.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DescriptionSet: hasJSONField(raw, "description"),
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	return input, nil
}

// BuildTaskFilter reads status, priority, limit and offset from the query
// string. Range checks on offset and the enums are left to the service.
func BuildTaskFilter(query url.Values) (domain.TaskFilter, error) {
	var filter domain.TaskFilter
	verr := domain.NewValidationError()

	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status := domain.TaskStatus(value)
		filter.Status = &status
	}
	if value := strings.TrimSpace(query.Get("priority")); value != "" {
		priority := domain.TaskPriority(value)
		filter.Priority = &priority
	}

	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 1 {
			verr.Add("limit", apierrors.MsgInvalidLimit)
		}
		filter.Limit = limit
	}
	if value := strings.TrimSpace(query.Get("offset")); value != "" {
		offset, err := strconv.Atoi(value)
		if err != nil {
			verr.Add("offset", service.MsgInvalidOffset)
		}
		filter.Offset = offset
	}

	if verr.HasErrors() {
		return domain.TaskFilter{}, verr
	}
	return filter, nil
}

// ParseTaskID accepts a UUID in any case and returns its canonical form.
func ParseTaskID(value string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", ErrInvalidTaskID
	}
	return id.String(), nil
}

// FromBindingError turns decoder and validator failures into field details
// when the failing field is known.
func FromBindingError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		verr := domain.NewValidationError()
		for _, fieldErr := range validationErrors {
			field := strings.ToLower(fieldErr.Field())
			verr.Add(field, messageForTag(field, fieldErr.Tag()))
		}
		return verr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := domain.NewValidationError()
		verr.Add(typeErr.Field, apierrors.MsgInvalidFieldType)
		return verr
	}

	return ErrInvalidTaskPayload
}

func messageForTag(field, tag string) string {
	switch {
	case field == "title" && tag == "required":
		return service.MsgTitleRequired
	case field == "priority" && tag == "oneof":
		return service.MsgInvalidPriority
	case field == "status" && tag == "oneof":
		return service.MsgInvalidStatus
	}
	return apierrors.MsgInvalidFieldType
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrInvalidTaskPayload
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrInvalidTaskPayload
	}
	return raw, nil
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNullField(raw map[string]json.RawMessage, field string) bool {
	value, ok := raw[field]
	return ok && isJSONNull(value)
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

package dto

const StatusSuccess = "success"

// Response is the success envelope.
type Response struct {
	Status  string    `json:"status"`
	Data    any       `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
	Message string    `json:"message,omitempty"`
}

type PageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type TaskItem struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type DeletedTask struct {
	ID string `json:"id"`
}

// CurrentUser is the verified caller. Name is null when the token has none.
type CurrentUser struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest carries no content rules: a deleted task must be reported
// as such whatever the body holds, so the service validates values.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

func Success(data any) Response {
	return Response{Status: StatusSuccess, Data: data}
}

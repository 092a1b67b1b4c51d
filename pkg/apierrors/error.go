package apierrors

import (
	"fmt"
	"net/http"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/translator"
)

const StatusError = "error"

// JsonErr is the error envelope written by every failing request.
type JsonErr struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`

	HTTPStatus int `json:"-"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %s, Message: %s", e.Code, e.Message)
}

// CreateError generates a JsonErr with a translated message. The envelope code
// is derived from the HTTP status.
func CreateError(httpStatus int, msgKey string, lang string) JsonErr {
	return CreateErrorWithData(httpStatus, msgKey, lang, nil)
}

func CreateErrorWithData(httpStatus int, msgKey string, lang string, data map[string]any) JsonErr {
	return JsonErr{
		Status:     StatusError,
		Code:       CodeForStatus(httpStatus),
		Message:    GetTransErrorMsg(msgKey, lang, data),
		HTTPStatus: httpStatus,
	}
}

// WithDetails attaches field level messages. Values are translation keys.
func (e JsonErr) WithDetails(details map[string]string, lang string) JsonErr {
	if len(details) == 0 {
		return e
	}

	translated := make(map[string]string, len(details))
	for field, msgKey := range details {
		translated[field] = GetTransErrorMsg(msgKey, lang, nil)
	}
	e.Details = translated
	return e
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string, data map[string]any) string {
	return translator.Localize(msgKey, lang, data)
}

func CodeForStatus(httpStatus int) string {
	switch httpStatus {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeInvalidState
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternalError
	}
}

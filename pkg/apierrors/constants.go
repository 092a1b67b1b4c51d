package apierrors

// Machine-readable error codes returned in the envelope.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidState  = "INVALID_STATE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
)

// Translation keys.
const (
	MsgMissingToken       = "missingToken"
	MsgUnauthorized       = "unauthorized"
	MsgTokenExpired       = "tokenExpired"
	MsgForbidden          = "forbidden"
	MsgTaskNotFound       = "taskNotFound"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidQuery       = "invalidQuery"
	MsgValidationFailed   = "validationFailed"
	MsgTaskInvalidState   = "taskInvalidState"
	MsgRateLimited        = "rateLimited"
	MsgInternalError      = "internalError"
	MsgRouteNotFound      = "routeNotFound"
	MsgInvalidLimit       = "invalidLimit"
	MsgFieldNotNullable   = "fieldNotNullable"
	MsgInvalidFieldType   = "invalidFieldType"
	MsgTaskDeleted        = "taskDeleted"
)

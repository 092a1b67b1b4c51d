package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	dbadapter "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/db"
	httpadapter "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/dto"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/handlers"
	appservice "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/app/service"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
)

const tokenPrefix = "token-"

// subjectVerifier trusts any "token-<subject>" bearer value.
type subjectVerifier struct{}

func (subjectVerifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	subject, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok || subject == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return domain.Identity{Subject: subject, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type flowEnvelope struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
	Data    json.RawMessage   `json:"data"`
	Meta    *dto.PageMeta     `json:"meta"`
}

// taskFlowSuite drives the whole stack: router, middleware, service and the
// SQL repository. Storage-specific suites embed it and provide the database.
type taskFlowSuite struct {
	suite.Suite

	DB     *sqlx.DB
	router *gin.Engine
}

func (s *taskFlowSuite) useDB(db *sqlx.DB) {
	s.DB = db

	repository := dbadapter.NewTaskRepository(db)
	router, err := httpadapter.NewRouter(httpadapter.RouterConfig{}, zap.NewNop(), httpadapter.Dependencies{
		HealthHandler: handlers.NewHealthHandler(repository, nil),
		TaskHandler:   handlers.NewTaskHandler(appservice.NewTaskService(repository), time.Millisecond),
		AuthHandler:   handlers.NewAuthHandler(),
		Verifier:      subjectVerifier{},
		Authorizer:    appservice.NewOwnershipGuard(),
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *taskFlowSuite) call(method, path, subject, body string) (int, flowEnvelope) {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+tokenPrefix+subject)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var got flowEnvelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return rec.Code, got
}

func (s *taskFlowSuite) createTask(owner, body string) dto.TaskItem {
	code, got := s.call(http.MethodPost, "/api/"+owner+"/tasks", owner, body)
	s.Require().Equal(http.StatusCreated, code, got.Message)
	return s.taskFrom(got)
}

func (s *taskFlowSuite) taskFrom(got flowEnvelope) dto.TaskItem {
	var item dto.TaskItem
	s.Require().NoError(json.Unmarshal(got.Data, &item))
	return item
}

func (s *taskFlowSuite) TestCreateThenGet_RoundTrips() {
	created := s.createTask("u1", `{"title":"  Write report  ","description":"quarterly","priority":"high"}`)

	s.Equal("Write report", created.Title)
	s.Equal("u1", created.OwnerID)
	s.Equal(string(domain.TaskStatusPending), created.Status)
	s.Equal(string(domain.TaskPriorityHigh), created.Priority)
	s.Require().NotNil(created.Description)
	s.Equal("quarterly", *created.Description)

	code, got := s.call(http.MethodGet, "/api/u1/tasks/"+created.ID, "u1", "")
	s.Require().Equal(http.StatusOK, code)
	s.Equal(created, s.taskFrom(got))
}

func (s *taskFlowSuite) TestList_ExcludesDeletedAndCountsPerOwner() {
	first := s.createTask("u1", `{"title":"one"}`)
	s.createTask("u1", `{"title":"two"}`)
	third := s.createTask("u1", `{"title":"three"}`)

	code, _ := s.call(http.MethodDelete, "/api/u1/tasks/"+first.ID, "u1", "")
	s.Require().Equal(http.StatusOK, code)

	code, got := s.call(http.MethodGet, "/api/u1/tasks", "u1", "")
	s.Require().Equal(http.StatusOK, code)
	s.Require().NotNil(got.Meta)
	s.Equal(2, got.Meta.Total)
	s.Equal(50, got.Meta.Limit)

	var items []dto.TaskItem
	s.Require().NoError(json.Unmarshal(got.Data, &items))
	s.Require().Len(items, 2)
	s.Equal(third.ID, items[0].ID)

	code, got = s.call(http.MethodGet, "/api/u2/tasks", "u2", "")
	s.Require().Equal(http.StatusOK, code)
	s.Equal(0, got.Meta.Total)
	s.JSONEq(`[]`, string(got.Data))
}

func (s *taskFlowSuite) TestOwnersCannotSeeEachOther() {
	task := s.createTask("u1", `{"title":"private"}`)

	code, got := s.call(http.MethodGet, "/api/u1/tasks/"+task.ID, "u2", "")
	s.Equal(http.StatusForbidden, code)
	s.Equal("FORBIDDEN", got.Code)

	// Same id under the caller's own path is simply absent.
	code, got = s.call(http.MethodGet, "/api/u2/tasks/"+task.ID, "u2", "")
	s.Equal(http.StatusNotFound, code)
	s.Equal("NOT_FOUND", got.Code)

	code, _ = s.call(http.MethodDelete, "/api/u2/tasks/"+task.ID, "u2", "")
	s.Equal(http.StatusNotFound, code)

	code, _ = s.call(http.MethodGet, "/api/u1/tasks/"+task.ID, "u1", "")
	s.Equal(http.StatusOK, code)
}

func (s *taskFlowSuite) TestDeletedTask_IsGoneAndImmutable() {
	task := s.createTask("u1", `{"title":"short lived"}`)

	code, got := s.call(http.MethodDelete, "/api/u1/tasks/"+task.ID, "u1", "")
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`{"id":"`+task.ID+`"}`, string(got.Data))

	code, _ = s.call(http.MethodDelete, "/api/u1/tasks/"+task.ID, "u1", "")
	s.Equal(http.StatusNotFound, code)

	code, _ = s.call(http.MethodGet, "/api/u1/tasks/"+task.ID, "u1", "")
	s.Equal(http.StatusNotFound, code)

	code, got = s.call(http.MethodPatch, "/api/u1/tasks/"+task.ID, "u1", `{"status":"pending"}`)
	s.Equal(http.StatusConflict, code)
	s.Equal("INVALID_STATE", got.Code)
}

func (s *taskFlowSuite) TestUpdate_PartialFieldsAndDescriptionClearing() {
	task := s.createTask("u1", `{"title":"draft","description":"first pass"}`)

	code, got := s.call(http.MethodPatch, "/api/u1/tasks/"+task.ID, "u1", `{"status":"in_progress"}`)
	s.Require().Equal(http.StatusOK, code)
	updated := s.taskFrom(got)
	s.Equal("in_progress", updated.Status)
	s.Equal("draft", updated.Title)
	s.Require().NotNil(updated.Description)

	for i := 0; i < 2; i++ {
		code, got = s.call(http.MethodPatch, "/api/u1/tasks/"+task.ID, "u1", `{"description":null}`)
		s.Require().Equal(http.StatusOK, code)
		s.Nil(s.taskFrom(got).Description)
	}

	code, got = s.call(http.MethodPatch, "/api/u1/tasks/"+task.ID, "u1", `{"status":"deleted"}`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("BAD_REQUEST", got.Code)
	s.Contains(got.Details, "status")
}

func (s *taskFlowSuite) TestHealthReportsDatabase() {
	code, got := s.call(http.MethodGet, "/health/ready", "", "")
	s.Equal(http.StatusOK, code)
	s.Equal("ok", got.Status)
}

func (s *taskFlowSuite) TestStorageFailure_ReturnsInternalError() {
	_, err := s.DB.Exec("DROP TABLE tasks")
	s.Require().NoError(err)

	code, got := s.call(http.MethodGet, "/api/u1/tasks", "u1", "")
	s.Equal(http.StatusInternalServerError, code)
	s.Equal("INTERNAL_ERROR", got.Code)
}

func (s *taskFlowSuite) TestCurrentUser_NeedsOnlyAToken() {
	code, got := s.call(http.MethodGet, "/api/auth/me", "u7", "")
	s.Require().Equal(http.StatusOK, code)

	var user dto.CurrentUser
	s.Require().NoError(json.Unmarshal(got.Data, &user))
	s.Equal("u7", user.ID)
	s.Nil(user.Name)

	code, got = s.call(http.MethodGet, "/api/auth/me", "", "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("UNAUTHORIZED", got.Code)
}

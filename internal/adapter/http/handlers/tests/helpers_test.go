package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/dto"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/handlers"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/app/service"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/translator"
)

const (
	validToken   = "valid-token"
	expiredToken = "expired-token"
	taskID       = "3f1c2b4a-5d6e-4f70-8a9b-0c1d2e3f4a5b"
)

type taskServiceMock struct {
	mock.Mock
}

var _ ports.TaskService = (*taskServiceMock)(nil)

func (m *taskServiceMock) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) (domain.TaskPage, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(domain.TaskPage), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, ownerID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	args := m.Called(ctx, ownerID, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, ownerID, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	args := m.Called(ctx, ownerID, taskID)
	return args.Error(0)
}

// stubVerifier accepts validToken for "u1" and reports expiredToken as expired.
type stubVerifier struct {
	calls int
}

func (v *stubVerifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	v.calls++
	switch token {
	case validToken:
		return domain.Identity{Subject: "u1", Email: "u1@example.com", Name: "User One", ExpiresAt: time.Now().Add(time.Hour)}, nil
	case expiredToken:
		return domain.Identity{}, domain.ErrTokenExpired
	}
	return domain.Identity{}, domain.ErrTokenInvalid
}

type limiterStub struct {
	result ports.RateLimitResult
	err    error
}

func (l limiterStub) Allow(context.Context, string) (ports.RateLimitResult, error) {
	return l.result, l.err
}

type envelope struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
	Data    json.RawMessage   `json:"data"`
	Meta    *dto.PageMeta     `json:"meta"`
}

func newRouter(t *testing.T, svc ports.TaskService, verifier ports.TokenVerifier, limiter ports.RateLimiter) *gin.Engine {
	t.Helper()

	router, err := apihttp.NewRouter(apihttp.RouterConfig{SecurityHeaders: true}, zap.NewNop(), apihttp.Dependencies{
		HealthHandler: handlers.NewHealthHandler(nil, nil),
		TaskHandler:   handlers.NewTaskHandler(svc, time.Millisecond),
		AuthHandler:   handlers.NewAuthHandler(),
		Verifier:      verifier,
		Authorizer:    service.NewOwnershipGuard(),
		Limiter:       limiter,
	})
	require.NoError(t, err)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Accept-Language", translator.LanguageEn)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(body string) io.Reader {
	return strings.NewReader(body)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var got envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func sampleTask(title string) domain.Task {
	return domain.Task{
		ID:        taskID,
		OwnerID:   "u1",
		Title:     title,
		Status:    domain.TaskStatusPending,
		Priority:  domain.TaskPriorityMedium,
		CreatedAt: time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC),
		UpdatedAt: time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC),
	}
}

package tests

// Mock generation for the ports exercised by handler tests.
//
// Usage:
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_service_mock.go --with-expecter
//go:generate mockery --name TokenVerifier --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename token_verifier_mock.go --with-expecter
//go:generate mockery --name RateLimiter --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename rate_limiter_mock.go --with-expecter

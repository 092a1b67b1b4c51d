package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/handlers"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/middleware"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

type RouterConfig struct {
	AllowedOrigins  []string
	TrustedProxies  []string
	SecurityHeaders bool
}

type Dependencies struct {
	HealthHandler *handlers.HealthHandler
	TaskHandler   *handlers.TaskHandler
	AuthHandler   *handlers.AuthHandler
	Verifier      ports.TokenVerifier
	Authorizer    ports.OwnershipAuthorizer
	Limiter       ports.RateLimiter // nil disables rate limiting
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(conf RouterConfig, logger *zap.Logger, deps Dependencies) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(conf.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinZapMiddleware(logger))
	r.Use(gin.Recovery())
	if conf.SecurityHeaders {
		r.Use(middleware.SecurityHeadersMiddleware())
	}
	if len(conf.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     conf.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", "Accept-Language", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.LanguageMiddleware())

	RegisterRoutes(r, deps)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	health := r.Group("/health")
	{
		health.GET("", deps.HealthHandler.CheckHealth)
		health.GET("/report", deps.HealthHandler.CheckHealthReport)
		health.GET("/live", deps.HealthHandler.Live)
		health.GET("/ready", deps.HealthHandler.Ready)
	}

	// No path owner here, so identity is the only check.
	r.GET("/api/auth/me", middleware.AuthMiddleware(deps.Verifier), deps.AuthHandler.Me)

	// Order matters: identity first, then ownership, then the per-owner limit.
	chain := []gin.HandlerFunc{
		middleware.AuthMiddleware(deps.Verifier),
		middleware.OwnershipMiddleware(deps.Authorizer),
	}
	if deps.Limiter != nil {
		chain = append(chain, middleware.RateLimitMiddleware(deps.Limiter))
	}

	tasks := r.Group("/api/:owner_id/tasks", chain...)
	{
		tasks.GET("", deps.TaskHandler.ListTasks)
		tasks.POST("", deps.TaskHandler.CreateTask)
		tasks.GET("/:task_id", deps.TaskHandler.GetTask)
		tasks.PATCH("/:task_id", deps.TaskHandler.UpdateTask)
		tasks.DELETE("/:task_id", deps.TaskHandler.DeleteTask)
	}

	r.NoRoute(func(c *gin.Context) {
		apiErr := apierrors.CreateError(http.StatusNotFound, apierrors.MsgRouteNotFound, middleware.GetLang(c))
		c.JSON(apiErr.HTTPStatus, apiErr)
	})
}

package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/middleware"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	healthDBTimeout = 2 * time.Second
)

// Pinger is satisfied by *sqlx.DB and the task repository.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// KeyCounter reports how many signing keys are cached.
type KeyCounter interface {
	Len() int
}

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Database string `json:"database"`
	Jwks     string `json:"jwks"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	CachedKeys        int            `json:"cached_keys"`
	Status            HealthServices `json:"status"`
}

type HealthHandler struct {
	db   Pinger
	keys KeyCounter
}

func NewHealthHandler(db Pinger, keys KeyCounter) *HealthHandler {
	return &HealthHandler{db: db, keys: keys}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	statusCode := http.StatusOK
	message := StatusOk

	if !h.checkConnectionToDatabase(c.Request.Context()) {
		statusCode = http.StatusServiceUnavailable
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	databaseStatus := StatusDown
	if h.checkConnectionToDatabase(c.Request.Context()) {
		databaseStatus = StatusOk
	}

	// An empty cache is normal before the first authenticated request.
	cachedKeys := 0
	jwksStatus := "cold"
	if h.keys != nil {
		cachedKeys = h.keys.Len()
		if cachedKeys > 0 {
			jwksStatus = StatusOk
		}
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Language:          middleware.GetLang(c),
		CachedKeys:        cachedKeys,
		Status: HealthServices{
			Database: databaseStatus,
			Jwks:     jwksStatus,
		},
	})
}

// Live reports that the process is serving requests.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": StatusOk})
}

// Ready reports whether storage is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.checkConnectionToDatabase(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": StatusDown})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusOk})
}

func (h *HealthHandler) checkConnectionToDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	// Avoid hanging health checks if the database stalls.
	timeoutCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return h.db.PingContext(timeoutCtx) == nil
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}

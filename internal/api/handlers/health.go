package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/pharmaforge/rxcast-go/internal/database"
)

var startTime = time.Now()

// HealthHandler reports service and system health.
type HealthHandler struct {
	db    *database.PostgresDB
	redis *database.RedisClient
}

type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	Goroutines    int     `json:"goroutines"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	System    SystemStats       `json:"system"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

func NewHealthHandler(db *database.PostgresDB, redis *database.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// HealthCheck reports dependency health plus a system resource snapshot.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)

	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			services["database"] = "unhealthy: " + err.Error()
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "unhealthy: not configured"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "unhealthy: not configured"
	}

	overallStatus := "healthy"
	for _, status := range services {
		if status != "healthy" {
			overallStatus = "unhealthy"
			break
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  services,
		System:    collectSystemStats(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// LivenessCheck only confirms the process is responsive.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// collectSystemStats is best-effort; collection failures zero the field
// rather than failing the health check.
func collectSystemStats() SystemStats {
	stats := SystemStats{Goroutines: runtime.NumGoroutine()}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		stats.CPUPercent = percentages[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
	}

	return stats
}

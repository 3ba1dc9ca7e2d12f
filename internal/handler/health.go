package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthResponse represents the JSON response for health endpoints
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// ReadinessResponse represents the JSON response for readiness endpoints
type ReadinessResponse struct {
	Status       string                 `json:"status"`
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Dependencies map[string]interface{} `json:"dependencies"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles the /health endpoint for liveness probes
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	// Only allow GET requests
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("Method not allowed\n"))
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "feedback-relay",
		Version:   "0.1.0",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error\n"))
		return
	}
}

// HandleReady handles the /ready endpoint for readiness probes. The
// Redis check only runs when the submission log is enabled; rdb is nil
// otherwise.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request, rdb *redis.Client, ctx context.Context) {
	// Only allow GET requests
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("Method not allowed\n"))
		return
	}

	overallStatus := "ready"
	statusCode := http.StatusOK
	dependencies := map[string]interface{}{}

	if rdb != nil {
		redisStatus := h.checkRedisConnectivity(rdb, ctx)
		dependencies["redis"] = redisStatus

		if !redisStatus["healthy"].(bool) {
			overallStatus = "not ready"
			statusCode = http.StatusServiceUnavailable
		}
	} else {
		dependencies["redis"] = map[string]interface{}{
			"status": "disabled",
		}
	}

	response := ReadinessResponse{
		Status:       overallStatus,
		Timestamp:    time.Now(),
		Service:      "feedback-relay",
		Dependencies: dependencies,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error\n"))
		return
	}
}

// checkRedisConnectivity checks Redis connectivity with 5-second timeout
func (h *HealthHandler) checkRedisConnectivity(rdb *redis.Client, ctx context.Context) map[string]interface{} {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := rdb.Ping(timeoutCtx).Err()
	duration := time.Since(start)

	if err != nil {
		return map[string]interface{}{
			"healthy":          false,
			"error":            err.Error(),
			"response_time_ms": duration.Milliseconds(),
		}
	}

	return map[string]interface{}{
		"healthy":          true,
		"status":           "connected",
		"response_time_ms": duration.Milliseconds(),
	}
}

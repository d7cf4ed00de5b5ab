package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/hazardwatch/hazardwatch/internal/api/models"
	"github.com/hazardwatch/hazardwatch/internal/api/response"
	"github.com/hazardwatch/hazardwatch/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// The service holds no long-lived resources, so readiness equals liveness.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - external provider health.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}

	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			providerStatus := models.HealthStatusOK
			switch {
			case ph.IsUnhealthy():
				providerStatus = models.HealthStatusFail
				status.Status = models.HealthStatusDegraded
			case ph.IsDegraded():
				providerStatus = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}

			status.Providers = append(status.Providers, models.ProviderStatus{
				Provider:      ph.Name,
				Status:        providerStatus,
				CircuitState:  circuitStateName(ph.CircuitState),
				LastSuccessAt: ph.LastSuccessAt,
				LastFailureAt: ph.LastFailureAt,
				LastError:     ph.LastError,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

// circuitStateName renders a circuit breaker state for the response body.
func circuitStateName(state gobreaker.State) string {
	switch state {
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

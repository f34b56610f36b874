package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the /healthz payload
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck reports liveness with no dependency probing
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		})
	}
}

// HealthCheckWithDeps probes each named dependency and reports 503 when
// any of them fails, so the load balancer stops routing to an instance
// that cannot reach its database or cache.
func HealthCheckWithDeps(serviceName, version string, checks map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
			Checks:  make(map[string]string, len(checks)),
		}

		code := http.StatusOK
		for name, check := range checks {
			if err := check(); err != nil {
				resp.Checks[name] = "unhealthy: " + err.Error()
				resp.Status = "unhealthy"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "healthy"
		}

		c.JSON(code, resp)
	}
}

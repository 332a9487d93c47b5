package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"healthwatch/internal/application/broadcast"
	"healthwatch/internal/domain/usecase/health"
	"healthwatch/pkg/msg"
)

// Rescheduler adjusts the polling interval at runtime
type Rescheduler interface {
	Reconfigure(interval time.Duration) error
	Interval() time.Duration
}

// ConfigRequest carries runtime configuration changes. Durations use Go
// syntax, e.g. "5m" or "90s". Empty fields are left unchanged.
type ConfigRequest struct {
	PollInterval       string `json:"poll_interval,omitempty"`
	StalenessThreshold string `json:"staleness_threshold,omitempty"`
}

// ConfigResponse echoes the applied configuration
type ConfigResponse struct {
	PollInterval       string `json:"poll_interval"`
	StalenessThreshold string `json:"staleness_threshold,omitempty"`
}

type MonitorController struct {
	api         *echo.Group
	useCase     health.UseCase
	broadcaster *broadcast.Broadcaster
	scheduler   Rescheduler
}

func NewMonitorController(api *echo.Group, useCase health.UseCase, broadcaster *broadcast.Broadcaster, scheduler Rescheduler) *MonitorController {
	return &MonitorController{api: api, useCase: useCase, broadcaster: broadcaster, scheduler: scheduler}
}

// InitMonitorRoutes initializes the monitor routes
func (controller *MonitorController) InitMonitorRoutes() {
	controller.api.GET("/monitor/health", controller.CurrentHealth())
	controller.api.POST("/monitor/check", controller.ForceCheck())
	controller.api.PUT("/monitor/config", controller.UpdateConfig())
}

// CurrentHealth returns the latest aggregate result, or 204 before the first check
func (controller *MonitorController) CurrentHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		current := controller.broadcaster.Current()
		if current == nil {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusOK, current)
	}
}

// ForceCheck runs a check that bypasses cache freshness
func (controller *MonitorController) ForceCheck() echo.HandlerFunc {
	return func(c echo.Context) error {
		result := controller.useCase.ForceCheck(c.Request().Context())
		return c.JSON(http.StatusOK, result)
	}
}

// UpdateConfig applies runtime changes to polling interval and staleness threshold
func (controller *MonitorController) UpdateConfig() echo.HandlerFunc {
	return func(c echo.Context) error {
		var request ConfigRequest
		if err := c.Bind(&request); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": msg.GetMessage("monitor.config.invalid-body")})
		}

		response := ConfigResponse{}

		if request.PollInterval != "" {
			interval, err := time.ParseDuration(request.PollInterval)
			if err != nil || interval <= 0 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": msg.GetMessage("monitor.config.invalid-interval", request.PollInterval)})
			}
			if err := controller.scheduler.Reconfigure(interval); err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
		}
		response.PollInterval = controller.scheduler.Interval().String()

		if request.StalenessThreshold != "" {
			threshold, err := time.ParseDuration(request.StalenessThreshold)
			if err != nil || threshold <= 0 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": msg.GetMessage("monitor.config.invalid-threshold", request.StalenessThreshold)})
			}
			controller.useCase.SetStalenessThreshold(threshold)
			response.StalenessThreshold = threshold.String()
		}

		return c.JSON(http.StatusOK, response)
	}
}

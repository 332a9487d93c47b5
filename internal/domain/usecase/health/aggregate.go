package health

import "healthwatch/internal/domain/model"

// Aggregate reduces the two component classifications and the connectivity
// state to one overall classification. Offline connectivity dominates
// everything; online, unhealthy takes precedence over unknown.
func Aggregate(system, database model.HealthStatus, connectivity model.ConnectivityStatus) model.HealthStatus {
	if connectivity == model.ConnectivityOffline {
		return model.StatusUnknown
	}
	if system == model.StatusUnhealthy || database == model.StatusUnhealthy {
		return model.StatusUnhealthy
	}
	if system == model.StatusUnknown || database == model.StatusUnknown {
		return model.StatusUnknown
	}
	return model.StatusHealthy
}

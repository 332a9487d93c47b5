package health_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"healthwatch/internal/domain/model"
	"healthwatch/internal/domain/usecase/health"
)

func TestAggregatePrecedence(t *testing.T) {
	tests := []struct {
		name         string
		system       model.HealthStatus
		database     model.HealthStatus
		connectivity model.ConnectivityStatus
		expected     model.HealthStatus
	}{
		{
			name:         "all healthy online",
			system:       model.StatusHealthy,
			database:     model.StatusHealthy,
			connectivity: model.ConnectivityOnline,
			expected:     model.StatusHealthy,
		},
		{
			name:         "offline dominates healthy components",
			system:       model.StatusHealthy,
			database:     model.StatusHealthy,
			connectivity: model.ConnectivityOffline,
			expected:     model.StatusUnknown,
		},
		{
			name:         "offline dominates unhealthy components",
			system:       model.StatusUnhealthy,
			database:     model.StatusUnhealthy,
			connectivity: model.ConnectivityOffline,
			expected:     model.StatusUnknown,
		},
		{
			name:         "unhealthy beats unknown when online",
			system:       model.StatusUnhealthy,
			database:     model.StatusUnknown,
			connectivity: model.ConnectivityOnline,
			expected:     model.StatusUnhealthy,
		},
		{
			name:         "unknown component degrades overall",
			system:       model.StatusUnknown,
			database:     model.StatusHealthy,
			connectivity: model.ConnectivityOnline,
			expected:     model.StatusUnknown,
		},
		{
			name:         "unknown connectivity does not dominate",
			system:       model.StatusHealthy,
			database:     model.StatusHealthy,
			connectivity: model.ConnectivityUnknown,
			expected:     model.StatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, health.Aggregate(tt.system, tt.database, tt.connectivity))
		})
	}
}

// TestAggregateTruthTable exercises every combination of component and
// connectivity states against the precedence rules.
func TestAggregateTruthTable(t *testing.T) {
	statuses := []model.HealthStatus{model.StatusHealthy, model.StatusUnhealthy, model.StatusUnknown}
	connectivities := []model.ConnectivityStatus{model.ConnectivityOnline, model.ConnectivityOffline, model.ConnectivityUnknown}

	expected := func(system, database model.HealthStatus, connectivity model.ConnectivityStatus) model.HealthStatus {
		switch {
		case connectivity == model.ConnectivityOffline:
			return model.StatusUnknown
		case system == model.StatusUnhealthy || database == model.StatusUnhealthy:
			return model.StatusUnhealthy
		case system == model.StatusUnknown || database == model.StatusUnknown:
			return model.StatusUnknown
		default:
			return model.StatusHealthy
		}
	}

	for _, system := range statuses {
		for _, database := range statuses {
			for _, connectivity := range connectivities {
				name := fmt.Sprintf("%s_%s_%s", system, database, connectivity)
				t.Run(name, func(t *testing.T) {
					assert.Equal(t, expected(system, database, connectivity),
						health.Aggregate(system, database, connectivity))
				})
			}
		}
	}
}

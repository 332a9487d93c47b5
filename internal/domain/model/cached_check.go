package model

import "time"

// CachedCheck is the persisted record of the last completed health check
type CachedCheck struct {
	LastCheckTime time.Time          `json:"last_check_time"`
	LastStatus    HealthStatus       `json:"last_status"`
	Result        *ApplicationHealth `json:"result"`
}

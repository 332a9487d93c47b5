package store

import (
	"context"
	"encoding/json"
	"time"

	"healthwatch/internal/domain/model"
	"healthwatch/pkg/log"
)

// Persisted key names for the last completed health check.
const (
	KeyLastCheck = "last_health_check"
	KeyStatus    = "health_check_status"
	KeyResult    = "health_check_result"
)

// DefaultStalenessThreshold is the maximum age of a cached result before a
// fresh network check is required.
const DefaultStalenessThreshold = 30 * time.Minute

// Cache records the outcome of the last health check in a persistent store and
// answers whether that record is recent enough to reuse. Read failures degrade
// to "no cache"; they are never surfaced to callers.
type Cache struct {
	store Store
	now   func() time.Time
}

// NewCache creates a health cache over the given store
func NewCache(store Store) *Cache {
	return &Cache{store: store, now: time.Now}
}

// WithClock overrides the cache's time source
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// IsStale reports whether a fresh check is due: true when no check was ever
// recorded, when the record cannot be read, or when the last check is at
// least threshold old.
func (c *Cache) IsStale(ctx context.Context, threshold time.Duration) bool {
	lastCheck, exists, err := c.store.GetInt64(ctx, KeyLastCheck)
	if err != nil {
		log.Warnf("Failed to read last check time, treating cache as stale: %v", err)
		return true
	}
	if !exists {
		return true
	}
	age := c.now().Sub(time.Unix(lastCheck, 0))
	return age >= threshold
}

// Load returns the persisted check record, or nil when never written or
// malformed. Malformed data degrades to nil, never an error.
func (c *Cache) Load(ctx context.Context) *model.CachedCheck {
	lastCheck, exists, err := c.store.GetInt64(ctx, KeyLastCheck)
	if err != nil || !exists {
		if err != nil {
			log.Warnf("Failed to read cached check time: %v", err)
		}
		return nil
	}

	status, _, err := c.store.GetString(ctx, KeyStatus)
	if err != nil {
		log.Warnf("Failed to read cached check status: %v", err)
		return nil
	}

	blob, exists, err := c.store.GetBytes(ctx, KeyResult)
	if err != nil || !exists {
		if err != nil {
			log.Warnf("Failed to read cached check result: %v", err)
		}
		return nil
	}

	var result model.ApplicationHealth
	if err := json.Unmarshal(blob, &result); err != nil {
		log.Warnf("Cached check result is malformed, ignoring: %v", err)
		return nil
	}

	return &model.CachedCheck{
		LastCheckTime: time.Unix(lastCheck, 0),
		LastStatus:    model.HealthStatus(status),
		Result:        &result,
	}
}

// Save persists the check result: timestamp, overall status and serialized
// snapshot are written together as one record.
func (c *Cache) Save(ctx context.Context, result *model.ApplicationHealth) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.store.SetValues(ctx, map[string]any{
		KeyLastCheck: c.now().Unix(),
		KeyStatus:    string(result.Overall),
		KeyResult:    blob,
	})
}

// Clear removes all persisted check fields
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, KeyLastCheck, KeyStatus, KeyResult)
}

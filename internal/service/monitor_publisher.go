package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// MonitorPublisher pushes attempt lifecycle events to the admin
// live-monitor pub/sub channel. Publishing is best-effort: a Redis
// failure never fails the operation that triggered the event.
type MonitorPublisher struct {
	rdb *redis.Client
}

// NewMonitorPublisher creates a new MonitorPublisher.
func NewMonitorPublisher(rdb *redis.Client) *MonitorPublisher {
	return &MonitorPublisher{rdb: rdb}
}

// Publish fires a monitor event. Call only after the originating
// transaction has committed.
func (p *MonitorPublisher) Publish(ctx context.Context, event model.MonitorEvent) {
	if p == nil || p.rdb == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	p.rdb.Publish(ctx, config.CacheKey.AttemptMonitorChannel(), payload)
}

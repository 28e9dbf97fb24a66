// Package events publishes posting lifecycle events on Redis pub/sub. The
// channel name is the event type, so subscribers pick the events they need.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobboard/discovery-service/internal/model"
)

// JobEvent is the JSON payload sent for JOB_CREATED and JOB_UPDATED.
type JobEvent struct {
	Type       string    `json:"type"`
	JobID      int64     `json:"jobId"`
	Source     string    `json:"source"`
	ExternalID string    `json:"externalId"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Emirate    string    `json:"emirate"`
	IsActive   bool      `json:"isActive"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RedisPublisher sends JobEvents through a go-redis client.
type RedisPublisher struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisPublisher returns a publisher on rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, now: time.Now}
}

// PublishJobEvent publishes job under the eventType channel.
func (p *RedisPublisher) PublishJobEvent(ctx context.Context, eventType string, job *model.JobPosting) error {
	payload, err := json.Marshal(NewJobEvent(eventType, job, p.now()))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	if err := p.rdb.Publish(ctx, eventType, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// NewJobEvent builds the payload for job.
func NewJobEvent(eventType string, job *model.JobPosting, at time.Time) JobEvent {
	return JobEvent{
		Type:       eventType,
		JobID:      job.ID,
		Source:     job.Source,
		ExternalID: job.ExternalID,
		Title:      job.Title,
		Company:    job.Company,
		Emirate:    job.Emirate,
		IsActive:   job.IsActive,
		OccurredAt: at.UTC(),
	}
}

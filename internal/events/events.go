// Package events carries activity notifications and job requests over a Redis stream.
package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	TypePlanSubmitted   = "plan.submitted"
	TypeReportSubmitted = "report.submitted"
	TypeHospitalAdded   = "hospital.added"
	TypeHospitalVisited = "hospital.visited"

	TypeReconcileCounters = "counters.reconcile"
	TypeRollupSnapshot    = "rollup.snapshot"
)

// Event is one stream entry. Count carries the doctors planned for plan events
// and the visits reported for report events.
type Event struct {
	Type           string
	ID             string
	Representative string
	Count          int
}

func (e Event) Values() map[string]any {
	return map[string]any{
		"type":           e.Type,
		"id":             e.ID,
		"representative": e.Representative,
		"count":          strconv.Itoa(e.Count),
	}
}

// Decode reads an event back from stream values, which Redis returns as strings.
func Decode(values map[string]interface{}) (Event, error) {
	str := func(key string) string {
		if v, ok := values[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}
		return ""
	}

	event := Event{
		Type:           str("type"),
		ID:             str("id"),
		Representative: str("representative"),
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("event type missing")
	}
	if raw := str("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Event{}, fmt.Errorf("decode count: %w", err)
		}
		event.Count = n
	}
	return event, nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: event.Values(),
	}).Result()
	return err
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

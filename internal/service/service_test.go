package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"medreps/internal/config"
	"medreps/internal/directory"
	"medreps/internal/events"
	"medreps/internal/repository"
	"medreps/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	dir       *directory.Directory
	set       repository.Set
	publisher *recordingPublisher
	services  Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret: "test-secret",
			JWTAccessTTL:    time.Hour,
		},
		Aggregation: config.AggregationConfig{
			Mode:          config.AggregationScan,
			ReportsWindow: DefaultReportsWindow,
			PlansWindow:   DefaultPlansWindow,
			RecentReports: DefaultRecentReports,
		},
	}
	f := &fixture{
		dir:       directory.Default(),
		set:       memory.NewSet(),
		publisher: &recordingPublisher{},
	}
	f.services = New(cfg, f.dir, f.set, f.publisher, nil, zerolog.Nop())
	return f
}

// as returns a context acting as the directory entry for code.
func (f *fixture) as(t *testing.T, code string) context.Context {
	t.Helper()
	identity, ok := f.dir.Lookup(code)
	require.True(t, ok, "unknown code %s", code)
	return WithActor(context.Background(), identity)
}

func (f *fixture) manager(t *testing.T) context.Context {
	return f.as(t, directory.DefaultManagerCode)
}

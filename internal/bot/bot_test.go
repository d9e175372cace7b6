package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/reibun/reibunbot/internal/bot/tasks"
	"github.com/reibun/reibunbot/internal/config"
	"github.com/reibun/reibunbot/internal/database"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGateway struct {
	mu       sync.Mutex
	openErr  error
	opened   int
	closed   int
	handlers int
	removed  int
}

func (f *fakeGateway) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened++
	return f.openErr
}

func (f *fakeGateway) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeGateway) AddHandler(interface{}) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.removed++
	}
}

type pingStore struct {
	database.Store
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func newTestScheduler(t *testing.T, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) *Scheduler {
	t.Helper()
	s, err := NewScheduler(discardLogger(), cfg, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	b := NewBot(discardLogger(), pingStore{}, gw, nil, newTestScheduler(t, nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.opened != 1 || gw.closed != 1 {
		t.Errorf("gateway opened %d, closed %d times; want 1 and 1", gw.opened, gw.closed)
	}
	if gw.handlers != 1 || gw.removed != 1 {
		t.Errorf("handlers added %d, removed %d; want 1 and 1", gw.handlers, gw.removed)
	}
}

func TestRunFailsWhenGatewayFails(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{openErr: errors.New("websocket: bad handshake")}
	b := NewBot(discardLogger(), pingStore{}, gw, nil, newTestScheduler(t, nil, nil))

	if err := b.Run(context.Background()); err == nil {
		t.Fatal("Run() succeeded although the gateway failed to open")
	}
}

func TestRunFailsWhenDatabaseUnreachable(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	b := NewBot(discardLogger(), pingStore{err: errors.New("connection refused")}, gw, nil, newTestScheduler(t, nil, nil))

	if err := b.Run(context.Background()); err == nil {
		t.Fatal("Run() succeeded with an unreachable database")
	}
	if gw.opened != 0 {
		t.Error("gateway opened despite the database check failing")
	}
}

func TestSchedulerRegistersEnabledTasks(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
		"disabled":        {Enabled: false, Schedule: "0 0 4 * * *"},
		"unregistered":    {Enabled: true, Schedule: "0 0 4 * * *"},
		"bad_schedule":    {Enabled: true, Schedule: "whenever"},
	}}
	s := newTestScheduler(t, cfg, map[string]tasks.ScheduledTaskFunc{
		"sql_maintenance": noop,
		"disabled":        noop,
		"bad_schedule":    noop,
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })

	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start() succeeded")
	}

	jobs := s.Jobs()
	sort.Strings(jobs)
	if len(jobs) != 1 || jobs[0] != "sql_maintenance" {
		t.Errorf("Jobs() = %v, want [sql_maintenance]", jobs)
	}
}

func TestSchedulerRunsTask(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 1)
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick": {Enabled: true, Schedule: "* * * * * *"},
	}}
	s := newTestScheduler(t, cfg, map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Error("task did not run within 3s")
	}

	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

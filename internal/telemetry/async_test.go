package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*Event
	emitErr error
	delay   time.Duration
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *Event) error {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}

// waitForEvents polls until the emitter has n events or the deadline passes.
func waitForEvents(t *testing.T, m *mockEventEmitter, n int) []*Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev := m.getEvents(); len(ev) >= n {
			return ev
		}
		time.Sleep(5 * time.Millisecond)
	}
	return m.getEvents()
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	EmitAsync(nil, zap.NewNop(), NewEvent("test", "", nil))
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, nil, nil)
	time.Sleep(10 * time.Millisecond)
	if events := emitter.getEvents(); len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, zap.NewNop(), NewEvent(EventOTPVerified, "user-1", map[string]string{"phone": "98******10"}))

	events := waitForEvents(t, emitter, 1)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", ev.UserID)
	}
	if ev.EventType != EventOTPVerified {
		t.Errorf("EventType = %q, want %q", ev.EventType, EventOTPVerified)
	}
	if ev.Source != SourceAPI {
		t.Errorf("Source = %q, want %q", ev.Source, SourceAPI)
	}
	var meta map[string]string
	if err := json.Unmarshal(ev.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["phone"] != "98******10" {
		t.Errorf("metadata phone = %q", meta["phone"])
	}
}

func TestEmitAsync_ErrorIsSwallowed(t *testing.T) {
	emitter := &mockEventEmitter{emitErr: errors.New("kafka down")}
	EmitAsync(emitter, zap.NewNop(), NewEvent("test", "", nil))
	if events := waitForEvents(t, emitter, 1); len(events) != 1 {
		t.Errorf("expected 1 attempted event, got %d", len(events))
	}
}

func TestEmitAsync_ConcurrentAccess(t *testing.T) {
	emitter := &mockEventEmitter{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(emitter, zap.NewNop(), NewEvent("test", "", nil))
		}()
	}
	wg.Wait()
	if events := waitForEvents(t, emitter, 10); len(events) != 10 {
		t.Errorf("expected 10 events, got %d", len(events))
	}
}

func TestNewEvent_NoMetadata(t *testing.T) {
	ev := NewEvent(EventLogout, "u1", nil)
	if ev.Metadata != nil {
		t.Errorf("Metadata = %s, want nil", ev.Metadata)
	}
	if ev.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMulti_FansOutAndReturnsFirstError(t *testing.T) {
	a := &mockEventEmitter{emitErr: errors.New("a failed")}
	b := &mockEventEmitter{}
	m := Multi(a, nil, b)
	err := m.Emit(context.Background(), NewEvent("test", "", nil))
	if err == nil || err.Error() != "a failed" {
		t.Errorf("err = %v, want a failed", err)
	}
	if len(a.getEvents()) != 1 || len(b.getEvents()) != 1 {
		t.Errorf("events a=%d b=%d, want 1 each", len(a.getEvents()), len(b.getEvents()))
	}
}

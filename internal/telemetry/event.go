// Package telemetry defines storefront telemetry events and best-effort emitters for them.
package telemetry

import (
	"context"
	"encoding/json"
	"time"
)

// Sources of telemetry events.
const (
	SourceAPI = "api"
)

// Event types emitted by the API.
const (
	EventOTPRequested   = "otp_requested"
	EventOTPVerified    = "otp_verified"
	EventOTPFailed      = "otp_failed"
	EventOTPRateLimited = "otp_rate_limited"
	EventLogout         = "logout"
	EventContactCreated = "contact_created"
	EventDeliveryCheck  = "delivery_check"
)

// Event is one telemetry record. It is serialized as JSON on the Kafka topic.
type Event struct {
	UserID    string          `json:"userId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	EventType string          `json:"eventType"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewEvent returns an API event of the given type stamped with the current time.
// metadata is marshalled to JSON; a nil map leaves Metadata empty.
func NewEvent(eventType, userID string, metadata map[string]string) *Event {
	ev := &Event{
		UserID:    userID,
		EventType: eventType,
		Source:    SourceAPI,
		CreatedAt: time.Now().UTC(),
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			ev.Metadata = raw
		}
	}
	return ev
}

// EventEmitter emits telemetry events (e.g. to Kafka or OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}

// Multi returns an emitter that forwards each event to every non-nil emitter.
// The first error is returned after all emitters have been called.
func Multi(emitters ...EventEmitter) EventEmitter {
	out := make(multiEmitter, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type multiEmitter []EventEmitter

func (m multiEmitter) Emit(ctx context.Context, event *Event) error {
	var first error
	for _, e := range m {
		if err := e.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

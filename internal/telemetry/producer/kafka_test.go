package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/karan399/milkman/internal/telemetry"
)

type fakeWriter struct {
	msgs     []kafka.Message
	writeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewKafkaProducer_DisabledWithoutBrokers(t *testing.T) {
	if p := NewKafkaProducer(nil, "topic"); p != nil {
		t.Error("NewKafkaProducer without brokers should return nil")
	}
	if p := NewKafkaProducer([]string{"localhost:9092"}, ""); p != nil {
		t.Error("NewKafkaProducer without topic should return nil")
	}
	var p *KafkaProducer
	if err := p.Emit(context.Background(), &telemetry.Event{}); err != nil {
		t.Errorf("nil producer Emit: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil producer Close: %v", err)
	}
}

func TestKafkaProducer_EmitWritesJSONKeyedByUser(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, topic: "t"}
	ev := telemetry.NewEvent(telemetry.EventOTPVerified, "user-1", nil)
	if err := p.Emit(context.Background(), ev); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "user-1" {
		t.Errorf("key = %q, want user-1", w.msgs[0].Key)
	}
	var got telemetry.Event
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EventType != telemetry.EventOTPVerified {
		t.Errorf("eventType = %q", got.EventType)
	}
}

func TestKafkaProducer_EmitError(t *testing.T) {
	w := &fakeWriter{writeErr: errors.New("broker unavailable")}
	p := &KafkaProducer{writer: w, topic: "t"}
	if err := p.Emit(context.Background(), telemetry.NewEvent("x", "", nil)); err == nil {
		t.Fatal("Emit should return the writer error")
	}
	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("Close: err=%v closed=%v", err, w.closed)
	}
}

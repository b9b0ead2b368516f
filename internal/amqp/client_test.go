package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped
		{10, 30 * time.Second}, // capped
		{40, 30 * time.Second}, // shift overflow guarded
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"channel closed", errors.New("message channel closed"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"unrelated error", errors.New("invalid payload"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

// recordingAcknowledger counts settlements so tests can assert each
// delivery is acked or nacked exactly once.
type recordingAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (a *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acks++
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func TestDeliverySettledExactlyOnce(t *testing.T) {
	syncBody, err := NewRecordSyncMessage(7, 1).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	tests := []struct {
		name        string
		msgType     string
		body        []byte
		handlerErr  error
		wantAcks    int
		wantNacks   int
		wantRequeue bool
	}{
		{"handled sync is acked", TypeRecordSync, syncBody, nil, 1, 0, false},
		{"handler failure requeues", TypeRecordSync, syncBody, errors.New("storage down"), 0, 1, true},
		{"malformed sync is dropped", TypeRecordSync, []byte("not json"), nil, 0, 1, false},
		{"malformed delete is dropped", TypeRecordDelete, []byte("not json"), nil, 0, 1, false},
		{"unknown type is dropped", "record.unknown", syncBody, nil, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &recordingAcknowledger{}
			delivery := amqp091.Delivery{
				Acknowledger: ack,
				DeliveryTag:  1,
				Type:         tt.msgType,
				Body:         tt.body,
			}
			onSync := func(context.Context, *RecordSyncMessage) error { return tt.handlerErr }
			onDelete := func(context.Context, *RecordDeleteMessage) error { return tt.handlerErr }

			ctx := context.Background()
			c := &Client{}
			settle(ctx, delivery, c.dispatch(ctx, delivery, onSync, onDelete))

			if total := ack.acks + ack.nacks; total != 1 {
				t.Fatalf("delivery settled %d times (%d acks, %d nacks), want exactly once",
					total, ack.acks, ack.nacks)
			}
			if ack.acks != tt.wantAcks {
				t.Errorf("acks = %d, want %d", ack.acks, tt.wantAcks)
			}
			if ack.nacks != tt.wantNacks {
				t.Errorf("nacks = %d, want %d", ack.nacks, tt.wantNacks)
			}
			if ack.nacks > 0 && ack.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", ack.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestRecordSyncMessageJSON(t *testing.T) {
	msg := NewRecordSyncMessage(42, 3)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := RecordSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("RecordSyncMessageFromJSON() error = %v", err)
	}
	if decoded.ID != 42 || decoded.Version != 3 {
		t.Errorf("decoded = %+v, want ID 42 version 3", decoded)
	}

	if _, err := RecordSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected an error for malformed payload")
	}
}

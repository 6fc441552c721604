package notify

import (
	"context"
	"errors"
	"testing"
)

func TestFanoutSkipsNilSinks(t *testing.T) {
	fanout := NewFanout(nil, SinkFunc(func(ctx context.Context, payload TaskFailurePayload) error {
		return nil
	}), nil)

	if got := fanout.Len(); got != 1 {
		t.Fatalf("expected one sink after filtering nils, got %d", got)
	}
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	sentinel := errors.New("boom")
	var delivered int

	fanout := NewFanout(
		SinkFunc(func(ctx context.Context, payload TaskFailurePayload) error {
			delivered++
			return sentinel
		}),
		SinkFunc(func(ctx context.Context, payload TaskFailurePayload) error {
			delivered++
			return nil
		}),
	)

	err := fanout.SendTaskFailure(context.Background(), TaskFailurePayload{Task: "reset_token_purge"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error from fan-out, got %v", err)
	}
	if delivered != 2 {
		t.Fatalf("expected both sinks to receive the payload, got %d", delivered)
	}
}

func TestNilFanoutIsNoop(t *testing.T) {
	var fanout *Fanout
	if err := fanout.SendTaskFailure(context.Background(), TaskFailurePayload{}); err != nil {
		t.Fatalf("nil fan-out should be a no-op, got %v", err)
	}
	if fanout.Len() != 0 {
		t.Fatalf("nil fan-out should report zero sinks")
	}
}

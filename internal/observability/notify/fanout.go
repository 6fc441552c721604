package notify

import (
	"context"
	"errors"
)

// Fanout delivers a payload to every configured sink. Delivery errors are
// collected rather than short-circuiting, so one slow or broken destination
// cannot silence the others.
type Fanout struct {
	sinks []Sink
}

// NewFanout builds a Fanout from the given sinks, skipping nil entries.
func NewFanout(sinks ...Sink) *Fanout {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept}
}

// Len reports how many sinks will receive notifications.
func (f *Fanout) Len() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// SendTaskFailure implements the Sink interface.
func (f *Fanout) SendTaskFailure(ctx context.Context, payload TaskFailurePayload) error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if err := s.SendTaskFailure(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

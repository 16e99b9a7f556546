// Package sink delivers a rendered summary to its destination.
//
// A sink either completes the whole write or leaves the destination
// untouched: callers only report success once Write has returned nil.
package sink

import "context"

// Sink is the destination of a rendered summary.
type Sink interface {
	// Write durably stores payload. It returns only once the write has completed or failed.
	Write(ctx context.Context, payload []byte) error
}

// Multi writes payload to every sink in order, stopping at the first failure.
type Multi []Sink

// Write implements Sink.
func (m Multi) Write(ctx context.Context, payload []byte) error {
	for _, s := range m {
		err := s.Write(ctx, payload)
		if err != nil {
			return err
		}
	}

	return nil
}

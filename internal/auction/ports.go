package auction

import "context"

// EventSink defines the interface for delivering fanout events to observers.
// Implementations are transport adapters (WebSocket hub, message broker);
// the engine never depends on how delivery happens.
type EventSink interface {
	// Deliver delivers a single event. A delivery failure must never fail
	// the bid that produced the event.
	Deliver(ctx context.Context, event Event) error
}

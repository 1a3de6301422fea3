package events

import (
	"context"
	"log/slog"

	"github.com/callmeprinceyadav/Levich/internal/auction"
)

// Dispatcher fans accepted-bid events out to every configured sink. Sink
// failures are logged and swallowed: the bid is already applied and must not
// be failed by a delivery problem.
type Dispatcher struct {
	sinks  []auction.EventSink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(logger *slog.Logger, sinks ...auction.EventSink) *Dispatcher {
	return &Dispatcher{
		sinks:  sinks,
		logger: logger,
	}
}

// Dispatch delivers each event to each sink in order.
func (d *Dispatcher) Dispatch(ctx context.Context, events []auction.Event) {
	for _, event := range events {
		for _, sink := range d.sinks {
			if err := sink.Deliver(ctx, event); err != nil {
				d.logger.Error("event delivery failed",
					"event_type", event.Type.String(),
					"error", err,
				)
			}
		}
	}
}

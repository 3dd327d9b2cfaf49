package events

import (
	"context"
	"time"

	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// Appender persists a single interaction event.
type Appender interface {
	Append(ctx context.Context, event InteractionEvent) error
}

// Recorder logs interaction events off the response path. Failures are
// swallowed and surfaced only through the operational log; the webhook
// response never waits on, or fails because of, event logging.
type Recorder struct {
	store   Appender
	logger  *logging.Logger
	timeout time.Duration

	// onFailure is invoked after a swallowed append failure, if set.
	// Used to bump the observability counter.
	onFailure func()
}

// NewRecorder creates a fire-and-forget recorder over the given store.
func NewRecorder(store Appender, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{
		store:   store,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// OnFailure registers a callback fired after each swallowed append failure.
func (r *Recorder) OnFailure(fn func()) {
	r.onFailure = fn
}

// Record appends the event asynchronously. It returns immediately; the
// append runs in its own goroutine with a bounded timeout.
func (r *Recorder) Record(event InteractionEvent) {
	if r == nil || r.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.store.Append(ctx, event); err != nil {
			r.logger.Warn("failed to log interaction event",
				"error", err,
				"intent", event.IntentName,
				"source", string(event.Source),
			)
			if r.onFailure != nil {
				r.onFailure()
			}
		}
	}()
}

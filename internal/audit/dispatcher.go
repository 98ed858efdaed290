package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
)

type Event struct {
	Actor    auth.Context
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Recorder accepts events without blocking. *Dispatcher is the
// production implementation.
type Recorder interface {
	Dispatch(ev Event)
}

// Store persists audit events.
type Store interface {
	Log(ctx context.Context, ev Event) error
}

const queueSize = 100

type Dispatcher struct {
	store  Store
	queue  chan Event
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ Recorder = (*Dispatcher)(nil)

func NewDispatcher(store Store, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		queue:  make(chan Event, queueSize),
		logger: logger.With().Str("component", "audit").Logger(),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.store.Log(ctx, ev); err != nil {
			d.logger.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
		cancel()
	}
}

// Dispatch never blocks the caller. Events are dropped when the queue is
// full or the dispatcher is closed.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn().Str("action", ev.Action).Msg("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

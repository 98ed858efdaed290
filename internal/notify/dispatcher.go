package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/services-booking/internal/metrics"
)

// Dispatcher delivers messages in the background. Delivery failures are
// logged and counted, never reported to the caller.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sender Sender, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, 50),
		logger: logger.With().Str("component", "notify").Logger(),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := d.sender.Send(ctx, msg); err != nil {
			metrics.IncNotificationFailed()
			d.logger.Error().Err(err).Str("subject", msg.Subject).Msg("email delivery failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if len(msg.To) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn().Str("subject", msg.Subject).Msg("notify dispatcher closed, dropping email")
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn().Str("subject", msg.Subject).Msg("notify queue full, dropping email")
	}
}

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

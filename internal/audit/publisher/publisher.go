package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stipend/internal/audit"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  audit.Store
	events chan audit.Event
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
	clock  func() time.Time
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

// WithLogger sets a logger for async error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// Publish records the event, stamping the timestamp if unset. In async mode
// a full buffer drops the event rather than blocking domain logic.
func (p *Publisher) Publish(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock().UTC()
	}
	if p.async {
		select {
		case p.events <- event:
		default:
			if p.logger != nil {
				p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
			}
		}
		return
	}
	if err := p.store.Append(ctx, event); err != nil && p.logger != nil {
		p.logger.Error("failed to persist audit event", "error", err, "action", event.Action)
	}
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event", "error", err, "action", event.Action)
		}
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

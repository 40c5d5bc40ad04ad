package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultPollInterval = 30 * time.Second

// Poller refreshes the gateway summary on an interval and hands each
// snapshot to the callback. Starting an already running poller rearms it
// with the new context; at most one refresh loop runs at a time.
type Poller struct {
	client    *Client
	logger    *slog.Logger
	interval  time.Duration
	onSummary func(Summary)

	mu   sync.Mutex
	stop context.CancelFunc
	done chan struct{}
}

func NewPoller(client *Client, logger *slog.Logger, interval time.Duration, onSummary func(Summary)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		client:    client,
		logger:    logger.With("job", "whatsapp_summary"),
		interval:  interval,
		onSummary: onSummary,
	}
}

// Start launches the refresh loop. A previous loop, if any, is stopped
// first. The loop also ends when ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.stop = cancel
	p.done = done

	go p.run(ctx, done)
}

// Stop ends the refresh loop and waits for it to finish. Safe to call
// repeatedly and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.stop == nil {
		return
	}

	p.stop()
	<-p.done
	p.stop = nil
	p.done = nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.refresh(ctx)

		select {
		case <-ctx.Done():
			p.logger.Debug("job stopped by ctx")

			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	p.logger.Debug("job started")

	summary, err := p.client.Summary(ctx)
	if err != nil {
		p.logger.Error(fmt.Sprintf("job failed: %s", err))

		return
	}

	if p.onSummary != nil {
		p.onSummary(summary)
	}

	p.logger.Debug("job finished")
}

package events

import (
	"context"
	"time"

	"artstore/internal/log"
	"artstore/internal/repos"
)

// Outbox is the storage side the poller drains.
type Outbox interface {
	Unprocessed(ctx context.Context, limit int) ([]repos.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id string) error
}

const batchSize = 100

type OutboxPoller struct {
	outbox Outbox
	pub    Publisher
	tick   time.Duration
}

func NewOutboxPoller(outbox Outbox, pub Publisher, tick time.Duration) *OutboxPoller {
	if tick <= 0 {
		tick = 2 * time.Second
	}
	return &OutboxPoller{outbox: outbox, pub: pub, tick: tick}
}

// Run relays events every tick until ctx is done.
func (p *OutboxPoller) Run(ctx context.Context) {
	t := time.NewTicker(p.tick)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.ProcessOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessOnce publishes one batch in insertion order and returns how many were
// marked processed. An event that fails to publish stays for the next round.
func (p *OutboxPoller) ProcessOnce(ctx context.Context) int {
	batch, err := p.outbox.Unprocessed(ctx, batchSize)
	if err != nil {
		log.Error(nil, "outbox.fetch", err, nil)
		return 0
	}

	done := 0
	for _, evt := range batch {
		if err := p.pub.Publish(ctx, evt); err != nil {
			log.Error(nil, "outbox.publish", err, map[string]any{"event_id": evt.ID, "order_id": evt.AggregateID})
			continue
		}
		if err := p.outbox.MarkProcessed(ctx, evt.ID); err != nil {
			log.Error(nil, "outbox.mark", err, map[string]any{"event_id": evt.ID})
			continue
		}
		done++
	}
	if done > 0 {
		log.Info(nil, "outbox.relayed", map[string]any{"count": done})
	}
	return done
}

// Package poller samples the pasteboard on a fixed interval and feeds
// genuinely new captures into the history store.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/davisday9394/Paiste/internal/content"
	"github.com/davisday9394/Paiste/internal/history"
	"github.com/davisday9394/Paiste/internal/pasteboard"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Config configures a Poller. Zero values select defaults.
type Config struct {
	Board    pasteboard.Pasteboard
	Store    *history.Store
	Interval time.Duration
	Kinds    []content.Kind // capture priority order
	Logger   *slog.Logger
}

// Poller owns the capture loop. It is single-threaded with respect to
// itself: ticks never overlap.
type Poller struct {
	board    pasteboard.Pasteboard
	store    *history.Store
	interval time.Duration
	kinds    []content.Kind
	log      *slog.Logger

	primed bool
	last   uint64
}

// New returns a Poller; call Run to start it.
func New(cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = content.DefaultOrder
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Poller{
		board:    cfg.Board,
		store:    cfg.Store,
		interval: cfg.Interval,
		kinds:    cfg.Kinds,
		log:      cfg.Logger,
	}
}

// Run samples the board every interval until ctx is cancelled. The first
// sample establishes the baseline, so whatever sat on the clipboard before
// startup is not treated as a change.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("poller started",
		"backend", p.board.Name(),
		"interval", p.interval,
		"kinds", p.kinds,
	)
	p.tick()

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("poller stopped")
			return
		case <-t.C:
			p.tick()
		}
	}
}

// tick samples the change counter and captures at most one new value.
// Nothing in here is fatal: a board that cannot be read this tick is read
// again next tick.
func (p *Poller) tick() {
	count, err := p.board.ChangeCount()
	if err != nil {
		p.log.Debug("change counter unavailable, skipping tick", "err", err)
		return
	}
	if !p.primed {
		p.primed = true
		p.last = count
		return
	}
	if count == p.last {
		return
	}
	// Record the counter before capturing so a capture that fails is not
	// reprocessed on every following tick.
	p.last = count

	for _, kind := range p.kinds {
		c, err := p.board.Read(kind)
		if err != nil {
			p.log.Debug("capture failed", "kind", kind, "err", err)
			continue
		}
		if c == nil || c.Empty() {
			continue
		}
		if e, isNew := p.store.Insert(c); isNew {
			p.log.Debug("captured", "kind", kind, "id", e.ID)
		} else {
			p.log.Debug("recaptured, moved to top", "kind", kind, "id", e.ID)
		}
		return
	}
	p.log.Debug("clipboard changed but offered nothing usable")
}

package usecase

import (
	"context"
	"time"

	"summerschool.lol/lolcoin/internal/domain/entity"
	"summerschool.lol/lolcoin/internal/domain/port"
)

// DefaultPollInterval is how often the ledger is re-fetched.
const DefaultPollInterval = 5 * time.Second

// LedgerPoller keeps the freshest ledger snapshot flowing without operator action
type LedgerPoller struct {
	source   port.LedgerSource
	interval time.Duration
	reporter port.ErrorReporter
	recorder port.Recorder
}

// NewLedgerPoller creates a new LedgerPoller. A non-positive interval falls
// back to DefaultPollInterval; recorder may be nil.
func NewLedgerPoller(
	source port.LedgerSource,
	interval time.Duration,
	reporter port.ErrorReporter,
	recorder port.Recorder,
) *LedgerPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &LedgerPoller{
		source:   source,
		interval: interval,
		reporter: reporter,
		recorder: recorder,
	}
}

// Interval returns the fixed poll interval.
func (p *LedgerPoller) Interval() time.Duration {
	return p.interval
}

// Run fetches immediately and then on every tick until ctx is done,
// publishing each successful snapshot to out. Fetches are fire-and-forget and
// may overlap; whichever completes last wins. Failed fetches publish nothing.
func (p *LedgerPoller) Run(ctx context.Context, out chan<- entity.LedgerSnapshot) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	go p.poll(ctx, out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.poll(ctx, out)
		}
	}
}

// Fetch performs a single poll outside the loop.
func (p *LedgerPoller) Fetch(ctx context.Context) (entity.LedgerSnapshot, error) {
	snapshot, err := p.source.FetchLedger(ctx)
	if err != nil {
		p.recorder.RecordPoll(false, 0)
		return entity.LedgerSnapshot{}, err
	}
	p.recorder.RecordPoll(true, snapshot.Len())
	return snapshot, nil
}

func (p *LedgerPoller) poll(ctx context.Context, out chan<- entity.LedgerSnapshot) {
	snapshot, err := p.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.reporter.LogWarning(ctx, "Ledger poll failed, keeping previous snapshot",
			"error", err.Error())
		return
	}

	select {
	case out <- snapshot:
	case <-ctx.Done():
	}
}

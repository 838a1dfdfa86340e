package usecase

import (
	"context"
	"errors"
	"fmt"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// ErrControllerStopped is returned for commands sent after Run has returned.
var ErrControllerStopped = errors.New("dashboard controller stopped")

// DashboardController owns the operator's view: the latest ledger snapshot
// and the transfer dialog. Poll results, transfer outcomes and operator
// commands are applied one at a time on the goroutine running Run.
type DashboardController struct {
	poller    *LedgerPoller
	workflow  *TransferWorkflow
	formatter BalanceFormatter

	commands chan func(context.Context)
	ready    chan struct{}
	stopped  chan struct{}

	// Owned by the Run goroutine.
	snapshot    entity.LedgerSnapshot
	readyClosed bool
	pending     <-chan entity.TransferOutcome
	settled     chan struct{}
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(poller *LedgerPoller, workflow *TransferWorkflow, formatter BalanceFormatter) *DashboardController {
	return &DashboardController{
		poller:    poller,
		workflow:  workflow,
		formatter: formatter,
		commands:  make(chan func(context.Context)),
		ready:     make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Run starts polling and serves commands until ctx is done. It must be called
// once. A transfer still in flight at shutdown is abandoned unsettled.
func (c *DashboardController) Run(ctx context.Context) error {
	defer close(c.stopped)

	snapshots := make(chan entity.LedgerSnapshot)
	go c.poller.Run(ctx, snapshots)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-snapshots:
			c.snapshot = snapshot
			if !c.readyClosed {
				close(c.ready)
				c.readyClosed = true
			}
		case outcome := <-c.pending:
			c.workflow.Settle(ctx, outcome)
			close(c.settled)
			c.pending, c.settled = nil, nil
		case cmd := <-c.commands:
			cmd(ctx)
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (c *DashboardController) do(ctx context.Context, fn func(loopCtx context.Context)) error {
	done := make(chan struct{})
	cmd := func(loopCtx context.Context) {
		defer close(done)
		fn(loopCtx)
	}

	select {
	case c.commands <- cmd:
	case <-c.stopped:
		return ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// WaitReady blocks until the first snapshot has arrived.
func (c *DashboardController) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-c.stopped:
		return ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the snapshot currently rendered. It is zero before the
// first successful poll.
func (c *DashboardController) Snapshot(ctx context.Context) (entity.LedgerSnapshot, error) {
	var snapshot entity.LedgerSnapshot
	err := c.do(ctx, func(context.Context) {
		snapshot = c.snapshot
	})
	return snapshot, err
}

// Rows projects the current snapshot into display rows.
func (c *DashboardController) Rows(ctx context.Context, filter RowFilter) ([]Row, error) {
	snapshot, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ProjectRows(snapshot, c.formatter, filter), nil
}

// Dialog returns the transfer dialog state.
func (c *DashboardController) Dialog(ctx context.Context) (DialogView, error) {
	var view DialogView
	err := c.do(ctx, func(context.Context) {
		view = c.workflow.Dialog()
	})
	return view, err
}

// OpenTransfer opens the transfer dialog for the row identified by key.
func (c *DashboardController) OpenTransfer(ctx context.Context, key string) error {
	var result error
	if err := c.do(ctx, func(context.Context) {
		account, ok := c.snapshot.Find(key)
		if !ok {
			result = fmt.Errorf("%w: %q", entity.ErrAccountNotFound, key)
			return
		}
		result = c.workflow.Open(account)
	}); err != nil {
		return err
	}
	return result
}

// UpdateTransfer sets one field of the open draft.
func (c *DashboardController) UpdateTransfer(ctx context.Context, field entity.DraftField, value string) error {
	var result error
	if err := c.do(ctx, func(context.Context) {
		result = c.workflow.Update(field, value)
	}); err != nil {
		return err
	}
	return result
}

// CloseTransfer hides the dialog. An in-flight transfer keeps going.
func (c *DashboardController) CloseTransfer(ctx context.Context) error {
	return c.do(ctx, func(context.Context) {
		c.workflow.Close()
	})
}

// SubmitTransfer validates and dispatches the open draft. The returned channel
// is closed once the outcome has been settled and notified. The call itself
// is bound to Run's context, not ctx, so it outlives the caller.
func (c *DashboardController) SubmitTransfer(ctx context.Context) (<-chan struct{}, error) {
	var (
		settled <-chan struct{}
		result  error
	)
	if err := c.do(ctx, func(loopCtx context.Context) {
		outcome, err := c.workflow.Submit(loopCtx)
		if err != nil {
			result = err
			return
		}
		ch := make(chan struct{})
		c.pending, c.settled = outcome, ch
		settled = ch
	}); err != nil {
		return nil, err
	}
	return settled, result
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"summerschool.lol/lolcoin/internal/domain/entity"
	"summerschool.lol/lolcoin/internal/domain/port"
)

// WorkflowState is the stage of the transfer workflow.
type WorkflowState int

const (
	StateIdle WorkflowState = iota
	StateEditing
	StateValidating
	StateSubmitting
)

func (s WorkflowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("WorkflowState(%d)", int(s))
	}
}

// DefaultExplorerURL prefixes transaction hashes in success notifications.
const DefaultExplorerURL = "https://explorer.mainnet.near.org/transactions/"

// DialogView is what the presentation layer needs to render the transfer dialog.
type DialogView struct {
	Visible     bool
	State       WorkflowState
	Draft       entity.TransferDraft
	FieldErrors entity.ValidationErrors
}

// TransferWorkflow validates a draft, submits it and turns the result into
// operator notifications.
//
// It is not safe for concurrent use: every method must be called from the
// dashboard's event loop. Only the backend call itself runs elsewhere.
type TransferWorkflow struct {
	gateway     port.TransferGateway
	notifier    port.Notifier
	reporter    port.ErrorReporter
	recorder    port.Recorder
	explorerURL string

	state    WorkflowState
	draft    *entity.TransferDraft
	inFlight *attempt
}

// attempt remembers what the outcome notification needs after the draft is gone.
type attempt struct {
	receiver entity.Account
	amount   entity.MinorUnits
}

// NewTransferWorkflow creates a new TransferWorkflow
func NewTransferWorkflow(
	gateway port.TransferGateway,
	notifier port.Notifier,
	reporter port.ErrorReporter,
	recorder port.Recorder,
	explorerURL string,
) *TransferWorkflow {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if explorerURL == "" {
		explorerURL = DefaultExplorerURL
	}
	return &TransferWorkflow{
		gateway:     gateway,
		notifier:    notifier,
		reporter:    reporter,
		recorder:    recorder,
		explorerURL: explorerURL,
	}
}

// State returns the current stage.
func (w *TransferWorkflow) State() WorkflowState {
	return w.state
}

// Dialog returns a copy of the dialog state.
func (w *TransferWorkflow) Dialog() DialogView {
	view := DialogView{State: w.state}
	if w.draft != nil {
		view.Visible = true
		view.Draft = *w.draft
		view.FieldErrors = w.draft.FieldErrors()
	}
	return view
}

// Open starts a fresh draft addressed to receiver and shows the dialog.
func (w *TransferWorkflow) Open(receiver entity.Account) error {
	if w.state == StateSubmitting {
		return entity.ErrSubmissionInFlight
	}
	w.draft = entity.NewTransferDraft(receiver)
	w.state = StateEditing
	return nil
}

// Update sets one draft field from operator input.
func (w *TransferWorkflow) Update(field entity.DraftField, value string) error {
	if w.state == StateSubmitting {
		return entity.ErrSubmissionInFlight
	}
	if w.draft == nil {
		return entity.ErrNoActiveDraft
	}
	return w.draft.SetField(field, value)
}

// Close hides the dialog and drops the draft. A call already dispatched is
// not cancelled and will still be settled.
func (w *TransferWorkflow) Close() {
	w.draft = nil
	if w.state != StateSubmitting {
		w.state = StateIdle
	}
}

// Submit validates the draft and, when valid, dispatches it. An invalid draft
// returns entity.ValidationErrors without touching the network. On dispatch the
// in-progress notification has already been emitted; the outcome arrives on
// the returned channel and must be handed to Settle.
func (w *TransferWorkflow) Submit(ctx context.Context) (<-chan entity.TransferOutcome, error) {
	if w.state == StateSubmitting {
		return nil, entity.ErrSubmissionInFlight
	}
	if w.draft == nil {
		return nil, entity.ErrNoActiveDraft
	}

	w.state = StateValidating
	w.draft.Submitted = true
	if err := w.draft.Validate(); err != nil {
		w.state = StateEditing
		return nil, err
	}

	w.notifier.Notify(ctx, entity.Notification{
		Severity: entity.SeverityInfo,
		Summary:  summarySending,
		Detail:   detailSending,
		Duration: progressDuration,
	})

	req := w.draft.Request()
	w.inFlight = &attempt{
		receiver: w.draft.Receiver,
		amount:   w.draft.AmountMinorUnits(),
	}
	w.state = StateSubmitting

	done := make(chan entity.TransferOutcome, 1)
	go func() {
		done <- w.dispatch(ctx, req)
	}()
	return done, nil
}

func (w *TransferWorkflow) dispatch(ctx context.Context, req entity.TransferRequest) entity.TransferOutcome {
	resp, err := w.gateway.SendTransfer(ctx, req)
	if err != nil {
		return entity.TransferNetworkError{Err: err}
	}
	if resp == nil {
		return entity.TransferNetworkError{Err: fmt.Errorf("empty transfer response")}
	}
	return resp.Outcome()
}

// Settle emits the outcome notification, resets the draft, closes the dialog
// and returns to idle. It never asks for a ledger refresh: the next poll
// reflects the transfer.
func (w *TransferWorkflow) Settle(ctx context.Context, outcome entity.TransferOutcome) {
	if w.state != StateSubmitting || w.inFlight == nil {
		return
	}

	switch o := outcome.(type) {
	case entity.TransferSucceeded:
		w.notifier.Notify(ctx, w.successNotification(o))
	case entity.TransferFailed:
		w.notifier.Notify(ctx, entity.Notification{
			Severity: entity.SeverityError,
			Summary:  summaryFailure,
			Detail:   o.Message,
			Duration: failureDuration,
		})
	case entity.TransferNetworkError:
		w.reporter.LogError(ctx, "Transfer submission failed", o.Err,
			"receiver_account_id", w.inFlight.receiver.AccountID,
			"transfer_amount", int64(w.inFlight.amount))
		w.notifier.Notify(ctx, entity.Notification{
			Severity: entity.SeverityError,
			Summary:  summaryFailure,
			Detail:   detailGeneric,
			Duration: failureDuration,
		})
	}
	w.recorder.RecordTransfer(outcome.Kind())

	w.inFlight = nil
	w.draft = nil
	w.state = StateIdle
}

func (w *TransferWorkflow) successNotification(o entity.TransferSucceeded) entity.Notification {
	detail := fmt.Sprintf(detailSuccess, w.inFlight.amount, w.inFlight.receiver.FullName) +
		"\n" + detailRefresh

	n := entity.Notification{
		Severity: entity.SeveritySuccess,
		Summary:  summarySuccess,
		Detail:   detail,
		Duration: successDuration,
	}
	if hash := strings.TrimSpace(o.TransactionHash); hash != "" {
		n.Link = &entity.Link{
			Label: explorerLinkLbl,
			URL:   w.explorerURL + hash,
		}
	}
	return n
}

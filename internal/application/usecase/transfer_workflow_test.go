package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

var olena = entity.Account{
	ID:          "1",
	FullName:    "Олена",
	SchoolGrade: "10-А",
	AccountID:   "olena.near",
	Balance:     1050,
}

func newTestWorkflow(gateway *mockTransferGateway) (*TransferWorkflow, *recordingNotifier, *recordingReporter, *recordingRecorder) {
	notifier := &recordingNotifier{}
	reporter := &recordingReporter{}
	recorder := &recordingRecorder{}
	return NewTransferWorkflow(gateway, notifier, reporter, recorder, ""), notifier, reporter, recorder
}

func receiveOutcome(t *testing.T, ch <-chan entity.TransferOutcome) entity.TransferOutcome {
	t.Helper()
	select {
	case outcome := <-ch:
		return outcome
	case <-time.After(2 * time.Second):
		t.Fatal("transfer outcome was not delivered")
		return nil
	}
}

func fillDraft(t *testing.T, w *TransferWorkflow, amount, seedPhrase string) {
	t.Helper()
	require.NoError(t, w.Open(olena))
	require.NoError(t, w.Update(entity.FieldTransferAmount, amount))
	require.NoError(t, w.Update(entity.FieldSenderSeedPhrase, seedPhrase))
}

func TestTransferWorkflow_SubmitInvalidDraft(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		seedPhrase string
		wantFields []entity.DraftField
	}{
		{
			name:       "empty draft",
			wantFields: []entity.DraftField{entity.FieldTransferAmount, entity.FieldSenderSeedPhrase},
		},
		{
			name:       "zero amount",
			amount:     "0",
			seedPhrase: "word word word",
			wantFields: []entity.DraftField{entity.FieldTransferAmount},
		},
		{
			name:       "negative amount",
			amount:     "-3",
			seedPhrase: "word word word",
			wantFields: []entity.DraftField{entity.FieldTransferAmount},
		},
		{
			name:       "amount beyond int64 minor units",
			amount:     "184467440737095516.21",
			seedPhrase: "word word word",
			wantFields: []entity.DraftField{entity.FieldTransferAmount},
		},
		{
			name:       "whitespace seed phrase",
			amount:     "5",
			seedPhrase: "   \t",
			wantFields: []entity.DraftField{entity.FieldSenderSeedPhrase},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &mockTransferGateway{}
			w, notifier, _, _ := newTestWorkflow(gateway)
			fillDraft(t, w, tt.amount, tt.seedPhrase)

			ch, err := w.Submit(context.Background())
			require.Error(t, err)
			assert.Nil(t, ch)

			var verrs entity.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Len(t, verrs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.True(t, verrs.Has(field), "field %s should be flagged", field)
			}

			assert.Equal(t, StateEditing, w.State())
			assert.Zero(t, gateway.calls.Load())
			assert.Empty(t, notifier.all())

			view := w.Dialog()
			assert.True(t, view.Visible)
			assert.True(t, view.Draft.Submitted)
			assert.Equal(t, verrs, view.FieldErrors)
		})
	}
}

func TestTransferWorkflow_FieldErrorsFollowEdits(t *testing.T) {
	w, _, _, _ := newTestWorkflow(&mockTransferGateway{})
	require.NoError(t, w.Open(olena))
	assert.Empty(t, w.Dialog().FieldErrors, "no messages before the first attempt")

	_, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Len(t, w.Dialog().FieldErrors, 2)

	require.NoError(t, w.Update(entity.FieldTransferAmount, "1"))
	errs := w.Dialog().FieldErrors
	require.Len(t, errs, 1)
	msg, ok := errs.Message(entity.FieldSenderSeedPhrase)
	require.True(t, ok)
	assert.Equal(t, entity.MessageSeedPhraseRequired, msg)
}

func TestTransferWorkflow_Success(t *testing.T) {
	gateway := &mockTransferGateway{
		sendFunc: func(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error) {
			return &entity.TransferResponse{Status: "ok", TransactionHash: "abc"}, nil
		},
	}
	w, notifier, reporter, recorder := newTestWorkflow(gateway)
	fillDraft(t, w, "5.00", "seed phrase words")

	ch, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, w.State())

	// The progress notification is out before the outcome exists.
	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, entity.SeverityInfo, sent[0].Severity)

	outcome := receiveOutcome(t, ch)
	w.Settle(context.Background(), outcome)

	req := gateway.lastRequest()
	assert.Equal(t, "500", req.TransferAmount)
	assert.Equal(t, "olena.near", req.ReceiverAccountID)
	assert.Equal(t, "seed phrase words", req.SenderSeedPhrase)

	sent = notifier.all()
	require.Len(t, sent, 2)
	success := sent[1]
	assert.Equal(t, entity.SeveritySuccess, success.Severity)
	assert.Equal(t, summarySuccess, success.Summary)
	assert.Contains(t, success.Detail, "5 ЛОЛкоїн(ів) відправлено до користувача Олена!")
	require.NotNil(t, success.Link)
	assert.Equal(t, DefaultExplorerURL+"abc", success.Link.URL)
	assert.Equal(t, successDuration, success.Duration)

	assert.Equal(t, StateIdle, w.State())
	assert.False(t, w.Dialog().Visible)
	_, errs := reporter.counts()
	assert.Zero(t, errs)
	assert.Equal(t, []entity.OutcomeKind{entity.OutcomeSuccess}, recorder.transfers)
}

func TestTransferWorkflow_Settle(t *testing.T) {
	tests := []struct {
		name         string
		response     *entity.TransferResponse
		gatewayErr   error
		wantSeverity entity.Severity
		wantDetail   string
		wantLink     bool
		wantReported int
		wantKind     entity.OutcomeKind
	}{
		{
			name:         "declared failure is shown verbatim",
			response:     &entity.TransferResponse{Status: "error", ErrorMessage: "insufficient funds"},
			wantSeverity: entity.SeverityError,
			wantDetail:   "insufficient funds",
			wantKind:     entity.OutcomeFailure,
		},
		{
			name:         "error envelope without status",
			response:     &entity.TransferResponse{Code: 400, Message: "Invalid seed phrase"},
			wantSeverity: entity.SeverityError,
			wantDetail:   "Invalid seed phrase",
			wantKind:     entity.OutcomeFailure,
		},
		{
			name:         "transport error stays generic",
			gatewayErr:   errors.New("dial tcp 127.0.0.1:9001: connection refused"),
			wantSeverity: entity.SeverityError,
			wantDetail:   detailGeneric,
			wantReported: 1,
			wantKind:     entity.OutcomeNetworkError,
		},
		{
			name:         "success without hash has no link",
			response:     &entity.TransferResponse{Status: "ok"},
			wantSeverity: entity.SeveritySuccess,
			wantKind:     entity.OutcomeSuccess,
		},
		{
			name:         "success with hash links to explorer",
			response:     &entity.TransferResponse{Status: "ok", TransactionHash: "9xQ"},
			wantSeverity: entity.SeveritySuccess,
			wantLink:     true,
			wantKind:     entity.OutcomeSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &mockTransferGateway{
				sendFunc: func(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error) {
					return tt.response, tt.gatewayErr
				},
			}
			w, notifier, reporter, recorder := newTestWorkflow(gateway)
			fillDraft(t, w, "1", "seed")

			ch, err := w.Submit(context.Background())
			require.NoError(t, err)
			w.Settle(context.Background(), receiveOutcome(t, ch))

			sent := notifier.all()
			require.Len(t, sent, 2, "one progress and exactly one outcome notification")
			got := sent[1]
			assert.Equal(t, tt.wantSeverity, got.Severity)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, got.Detail)
			}
			if tt.gatewayErr != nil {
				assert.NotContains(t, got.Detail, tt.gatewayErr.Error())
			}
			assert.Equal(t, tt.wantLink, got.Link != nil)

			_, reported := reporter.counts()
			assert.Equal(t, tt.wantReported, reported)
			assert.Equal(t, []entity.OutcomeKind{tt.wantKind}, recorder.transfers)

			assert.Equal(t, StateIdle, w.State())
			assert.False(t, w.Dialog().Visible)
			assert.ErrorIs(t, w.Update(entity.FieldTransferAmount, "1"), entity.ErrNoActiveDraft)
		})
	}
}

func TestTransferWorkflow_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	gateway := &mockTransferGateway{
		sendFunc: func(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error) {
			<-release
			return &entity.TransferResponse{Status: "ok"}, nil
		},
	}
	w, notifier, _, _ := newTestWorkflow(gateway)
	fillDraft(t, w, "2", "seed")

	ch, err := w.Submit(context.Background())
	require.NoError(t, err)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, entity.ErrSubmissionInFlight)
	assert.ErrorIs(t, w.Open(olena), entity.ErrSubmissionInFlight)
	assert.ErrorIs(t, w.Update(entity.FieldTransferAmount, "3"), entity.ErrSubmissionInFlight)

	// Closing hides the dialog but the call keeps going.
	w.Close()
	assert.False(t, w.Dialog().Visible)
	assert.Equal(t, StateSubmitting, w.State())

	close(release)
	w.Settle(context.Background(), receiveOutcome(t, ch))

	assert.Equal(t, int32(1), gateway.calls.Load())
	assert.Len(t, notifier.all(), 2)
	assert.Equal(t, StateIdle, w.State())
	require.NoError(t, w.Open(olena))
}

func TestTransferWorkflow_SettleWithoutSubmissionIsIgnored(t *testing.T) {
	w, notifier, _, recorder := newTestWorkflow(&mockTransferGateway{})
	require.NoError(t, w.Open(olena))

	w.Settle(context.Background(), entity.TransferSucceeded{TransactionHash: "abc"})

	assert.Empty(t, notifier.all())
	assert.Empty(t, recorder.transfers)
	assert.Equal(t, StateEditing, w.State())
}

func TestTransferWorkflow_NoDraft(t *testing.T) {
	w, _, _, _ := newTestWorkflow(&mockTransferGateway{})

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, entity.ErrNoActiveDraft)
	assert.ErrorIs(t, w.Update(entity.FieldSenderSeedPhrase, "x"), entity.ErrNoActiveDraft)
	assert.Equal(t, StateIdle, w.State())
}

func TestTransferWorkflow_OpenResetsDraft(t *testing.T) {
	w, _, _, _ := newTestWorkflow(&mockTransferGateway{})
	fillDraft(t, w, "7", "seed")
	_, err := w.Submit(context.Background())
	require.NoError(t, err)
	w.Settle(context.Background(), entity.TransferFailed{Message: "nope"})

	require.NoError(t, w.Open(olena))
	view := w.Dialog()
	assert.True(t, view.Draft.Amount.IsZero())
	assert.Empty(t, view.Draft.SeedPhrase)
	assert.False(t, view.Draft.Submitted)
}

func TestWorkflowState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "WorkflowState(9)", WorkflowState(9).String())
}

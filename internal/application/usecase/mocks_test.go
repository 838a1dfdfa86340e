package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// mockLedgerSource is a mock implementation of LedgerSource
type mockLedgerSource struct {
	fetchFunc func(ctx context.Context) (entity.LedgerSnapshot, error)
	calls     atomic.Int32
}

func (m *mockLedgerSource) FetchLedger(ctx context.Context) (entity.LedgerSnapshot, error) {
	m.calls.Add(1)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	return entity.LedgerSnapshot{}, nil
}

// mockTransferGateway is a mock implementation of TransferGateway
type mockTransferGateway struct {
	sendFunc func(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error)
	calls    atomic.Int32

	mu       sync.Mutex
	requests []entity.TransferRequest
}

func (m *mockTransferGateway) SendTransfer(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, req)
	}
	return &entity.TransferResponse{Status: entity.TransferStatusOK}, nil
}

func (m *mockTransferGateway) lastRequest() entity.TransferRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return entity.TransferRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// recordingNotifier keeps every notification in emission order
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []entity.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification entity.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) all() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// recordingReporter is a mock implementation of ErrorReporter
type recordingReporter struct {
	mu       sync.Mutex
	warnings []string
	errors   []error
}

func (r *recordingReporter) LogWarning(_ context.Context, msg string, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *recordingReporter) LogError(_ context.Context, _ string, err error, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *recordingReporter) counts() (warnings, errors int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings), len(r.errors)
}

// recordingRecorder is a mock implementation of Recorder
type recordingRecorder struct {
	mu        sync.Mutex
	polls     []bool
	transfers []entity.OutcomeKind
}

func (r *recordingRecorder) RecordPoll(ok bool, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls = append(r.polls, ok)
}

func (r *recordingRecorder) RecordTransfer(kind entity.OutcomeKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, kind)
}

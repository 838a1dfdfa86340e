package port

import (
	"context"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// ErrorReporter receives diagnostics that are never shown to the operator
type ErrorReporter interface {
	LogWarning(ctx context.Context, msg string, attrs ...any)
	LogError(ctx context.Context, msg string, err error, attrs ...any)
}

// Recorder counts poll and transfer results
type Recorder interface {
	RecordPoll(ok bool, accounts int)
	RecordTransfer(kind entity.OutcomeKind)
}

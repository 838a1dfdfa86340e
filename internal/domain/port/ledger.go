package port

import (
	"context"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// LedgerSource is the port for fetching the server-authoritative ledger
type LedgerSource interface {
	FetchLedger(ctx context.Context) (entity.LedgerSnapshot, error)
}

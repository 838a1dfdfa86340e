package port

import (
	"context"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// TransferGateway is the port for the backend that moves funds.
// A returned error means no usable response arrived; a declared failure is
// carried in the response.
type TransferGateway interface {
	SendTransfer(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error)
}

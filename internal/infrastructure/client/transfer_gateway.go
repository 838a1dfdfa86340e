package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"summerschool.lol/lolcoin/internal/domain/entity"
	"summerschool.lol/lolcoin/internal/infrastructure/logger"
)

const maxTransferResponseBytes = 1 << 20

// TransferGateway posts transfers to the backend that signs and submits them
type TransferGateway struct {
	url     string
	client  *http.Client
	breaker *Breaker
	logger  logger.Logger
}

// NewTransferGateway creates a new TransferGateway. A zero timeout keeps the
// transport default.
func NewTransferGateway(url string, timeout time.Duration, breaker *Breaker, log logger.Logger) *TransferGateway {
	return &TransferGateway{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  log,
	}
}

// SendTransfer posts req and decodes the reply whatever its HTTP status.
// Only a transport failure or an unreadable body is returned as an error.
func (g *TransferGateway) SendTransfer(ctx context.Context, req entity.TransferRequest) (*entity.TransferResponse, error) {
	requestID := uuid.NewString()
	log := g.logger.WithRequestID(requestID)
	log.LogInfo(ctx, "Dispatching transfer", "request", req)

	result, err := g.breaker.Execute(func() (any, error) {
		return g.post(ctx, requestID, req)
	})
	if err != nil {
		return nil, err
	}

	resp := result.(*entity.TransferResponse)
	log.LogInfo(ctx, "Transfer answered",
		"status", resp.Status,
		"transaction_hash", resp.TransactionHash)
	return resp, nil
}

func (g *TransferGateway) post(ctx context.Context, requestID string, req entity.TransferRequest) (*entity.TransferResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send transfer: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxTransferResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read transfer response: %w", err)
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("unreadable transfer response (HTTP %d): expected a JSON object", httpResp.StatusCode)
	}

	var resp entity.TransferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unreadable transfer response (HTTP %d): %w", httpResp.StatusCode, err)
	}
	return &resp, nil
}

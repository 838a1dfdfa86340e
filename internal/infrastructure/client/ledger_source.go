package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

const maxLedgerBytes = 16 << 20

// LedgerSource fetches the ledger over HTTP, bypassing every cache
type LedgerSource struct {
	url     string
	client  *http.Client
	breaker *Breaker
	now     func() time.Time
}

// NewLedgerSource creates a new LedgerSource. A zero timeout keeps the
// transport default.
func NewLedgerSource(url string, timeout time.Duration, breaker *Breaker) *LedgerSource {
	return &LedgerSource{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		now:     time.Now,
	}
}

// FetchLedger retrieves and decodes one complete ledger.
func (s *LedgerSource) FetchLedger(ctx context.Context) (entity.LedgerSnapshot, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return entity.LedgerSnapshot{}, err
	}
	return result.(entity.LedgerSnapshot), nil
}

func (s *LedgerSource) fetch(ctx context.Context) (entity.LedgerSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return entity.LedgerSnapshot{}, fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return entity.LedgerSnapshot{}, fmt.Errorf("failed to fetch ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.LedgerSnapshot{}, fmt.Errorf("failed to fetch ledger: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLedgerBytes))
	if err != nil {
		return entity.LedgerSnapshot{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	return entity.ParseLedgerSnapshot(body, s.now())
}

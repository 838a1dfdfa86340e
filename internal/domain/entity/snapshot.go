package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LedgerSnapshot is one complete, immutable view of the ledger as of a single successful poll.
type LedgerSnapshot struct {
	accounts  []Account
	fetchedAt time.Time
}

// NewLedgerSnapshot copies accounts into a new snapshot.
func NewLedgerSnapshot(accounts []Account, fetchedAt time.Time) LedgerSnapshot {
	copied := make([]Account, len(accounts))
	copy(copied, accounts)
	return LedgerSnapshot{accounts: copied, fetchedAt: fetchedAt}
}

// ParseLedgerSnapshot decodes a ledger payload: a JSON array of accounts.
func ParseLedgerSnapshot(body []byte, fetchedAt time.Time) (LedgerSnapshot, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return LedgerSnapshot{}, fmt.Errorf("%w: expected a JSON array", ErrMalformedLedger)
	}

	var accounts []Account
	if err := json.Unmarshal(trimmed, &accounts); err != nil {
		return LedgerSnapshot{}, fmt.Errorf("%w: %w", ErrMalformedLedger, err)
	}
	return NewLedgerSnapshot(accounts, fetchedAt), nil
}

// Accounts returns a copy of the snapshot rows in server order.
func (s LedgerSnapshot) Accounts() []Account {
	copied := make([]Account, len(s.accounts))
	copy(copied, s.accounts)
	return copied
}

// Len returns the number of accounts.
func (s LedgerSnapshot) Len() int {
	return len(s.accounts)
}

// FetchedAt returns when the snapshot was taken.
func (s LedgerSnapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

// IsZero reports whether no poll has succeeded yet.
func (s LedgerSnapshot) IsZero() bool {
	return s.fetchedAt.IsZero()
}

// Find looks an account up by its Key.
func (s LedgerSnapshot) Find(key string) (Account, bool) {
	for _, account := range s.accounts {
		if account.Key() == key {
			return account, true
		}
	}
	return Account{}, false
}

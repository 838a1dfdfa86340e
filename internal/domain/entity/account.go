package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the number of minor units in one LOL.
const MinorUnitsPerMajor = 100

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// MinorUnits is an amount in the smallest indivisible currency unit.
type MinorUnits int64

// ParseMinorUnits parses a base-10 transport value into minor units.
// Fractional digits are truncated; negative and out-of-range values are rejected.
func ParseMinorUnits(s string) (MinorUnits, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidBalance, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidBalance, s)
	}
	if d.GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidBalance, s)
	}
	return MinorUnits(d.IntPart()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *MinorUnits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: null", ErrInvalidBalance)
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBalance, err)
		}
	}

	parsed, err := ParseMinorUnits(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Major returns the amount in major units.
func (m MinorUnits) Major() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount in major units without trailing zeros.
func (m MinorUnits) String() string {
	return m.Major().String()
}

// OpaqueID is a server-assigned identifier that may arrive as a JSON number or string.
type OpaqueID string

// UnmarshalJSON keeps the identifier's textual form whatever its JSON type.
func (id *OpaqueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = OpaqueID(s)
	default:
		*id = OpaqueID(data)
	}
	return nil
}

// Account is one row of the ledger as served by the data source.
type Account struct {
	ID          OpaqueID   `json:"id,omitempty"`
	FullName    string     `json:"fullName"`
	SchoolGrade string     `json:"schoolGrade"`
	AccountID   string     `json:"accountId"`
	Balance     MinorUnits `json:"balance"`
}

// Key identifies the account within a snapshot. Ledgers written by the
// indexer carry no id, so the external account id stands in for it.
func (a Account) Key() string {
	if a.ID != "" {
		return string(a.ID)
	}
	return a.AccountID
}

package entity

import "errors"

var (
	ErrAmountRequired     = errors.New("missing required field: transfer amount")
	ErrSeedPhraseRequired = errors.New("missing required field: sender seed phrase")
	ErrInvalidAmount      = errors.New("invalid transfer amount")
	ErrAmountTooLarge     = errors.New("transfer amount exceeds the representable range")
	ErrUnknownField       = errors.New("unknown draft field")

	ErrInvalidBalance  = errors.New("invalid account balance")
	ErrMalformedLedger = errors.New("malformed ledger payload")

	ErrNoActiveDraft      = errors.New("no transfer dialog is open")
	ErrSubmissionInFlight = errors.New("a transfer is already being submitted")
	ErrAccountNotFound    = errors.New("account not found in the current ledger snapshot")
)

package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DraftField names an operator-editable field of a TransferDraft.
type DraftField string

const (
	FieldTransferAmount   DraftField = "transferAmount"
	FieldSenderSeedPhrase DraftField = "senderSeedPhrase"
)

// Inline messages shown under invalid dialog fields.
const (
	MessageAmountRequired     = "Сума переводу є обовʼязковою."
	MessageSeedPhraseRequired = "Кодова фраза відправника є обовʼязковою."
	MessageAmountTooLarge     = "Сума переводу завелика."
)

// TransferDraft is the not-yet-submitted transfer input of the open dialog.
type TransferDraft struct {
	Receiver   Account
	Amount     decimal.Decimal
	SeedPhrase string
	// Submitted becomes true on the first submission attempt and stays true.
	Submitted bool
}

// NewTransferDraft starts an empty draft addressed to receiver.
// The account is copied so later snapshots do not alter the draft.
func NewTransferDraft(receiver Account) *TransferDraft {
	return &TransferDraft{Receiver: receiver}
}

// ParseAmount parses an operator-entered amount in major units.
// Both "." and "," are accepted as the decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	s = strings.Replace(s, ",", ".", 1)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}

// SetField updates one field from its textual input value.
// An unparsable amount clears the amount so validation flags it.
func (d *TransferDraft) SetField(field DraftField, value string) error {
	switch field {
	case FieldTransferAmount:
		amount, err := ParseAmount(value)
		if err != nil {
			d.Amount = decimal.Zero
			return err
		}
		d.Amount = amount
	case FieldSenderSeedPhrase:
		d.SeedPhrase = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Validate reports every invalid field, or nil when the draft is submittable.
func (d *TransferDraft) Validate() error {
	var errs ValidationErrors
	if !d.Amount.IsPositive() {
		errs = append(errs, ValidationError{
			Field:   FieldTransferAmount,
			Message: MessageAmountRequired,
			Err:     ErrAmountRequired,
		})
	} else if d.Amount.Shift(2).Round(0).GreaterThan(maxMinorUnits) {
		errs = append(errs, ValidationError{
			Field:   FieldTransferAmount,
			Message: MessageAmountTooLarge,
			Err:     ErrAmountTooLarge,
		})
	}
	if strings.TrimSpace(d.SeedPhrase) == "" {
		errs = append(errs, ValidationError{
			Field:   FieldSenderSeedPhrase,
			Message: MessageSeedPhraseRequired,
			Err:     ErrSeedPhraseRequired,
		})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FieldErrors returns the messages to render under the dialog fields.
// Nothing is reported before the first submission attempt.
func (d *TransferDraft) FieldErrors() ValidationErrors {
	if !d.Submitted {
		return nil
	}
	if errs, ok := d.Validate().(ValidationErrors); ok {
		return errs
	}
	return nil
}

// AmountMinorUnits converts the amount to minor units, rounding half away from zero.
// Only meaningful for a draft that passed Validate.
func (d *TransferDraft) AmountMinorUnits() MinorUnits {
	return MinorUnits(d.Amount.Shift(2).Round(0).IntPart())
}

// Request derives the wire request for this draft.
func (d *TransferDraft) Request() TransferRequest {
	return TransferRequest{
		TransferAmount:    strconv.FormatInt(int64(d.AmountMinorUnits()), 10),
		SenderSeedPhrase:  d.SeedPhrase,
		ReceiverAccountID: d.Receiver.AccountID,
	}
}

// ValidationError flags a single draft field.
type ValidationError struct {
	Field   DraftField
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects the invalid fields of a draft.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return "invalid transfer draft: " + strings.Join(parts, "; ")
}

func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, err)
	}
	return out
}

// Has reports whether field is flagged.
func (errs ValidationErrors) Has(field DraftField) bool {
	_, ok := errs.Message(field)
	return ok
}

// Message returns the inline message for field.
func (errs ValidationErrors) Message(field DraftField) (string, bool) {
	for _, err := range errs {
		if err.Field == field {
			return err.Message, true
		}
	}
	return "", false
}

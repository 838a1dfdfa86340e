package entity

import "log/slog"

// TransferStatusOK is the status a transfer backend declares on success.
const TransferStatusOK = "ok"

// DefaultFailureMessage is shown when the backend rejects a transfer without saying why.
const DefaultFailureMessage = "Переказ відхилено сервером."

// TransferRequest is the body of POST /send-transfer.
//
// The sender seed phrase travels in plaintext: the backend derives the key
// and signs on the dashboard's behalf. The contract is kept for compatibility
// with the existing backend; client-side signing would remove the credential
// from the wire.
type TransferRequest struct {
	TransferAmount    string `json:"transfer_amount"`
	SenderSeedPhrase  string `json:"sender_seed_phrase"`
	ReceiverAccountID string `json:"receiver_account_id"`
}

// LogValue keeps the seed phrase out of structured logs.
func (r TransferRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("transfer_amount", r.TransferAmount),
		slog.String("receiver_account_id", r.ReceiverAccountID),
		slog.String("sender_seed_phrase", "[REDACTED]"),
	)
}

// TransferResponse is the backend reply. Besides the declared status shape it
// understands the backend's error envelope ({code, message, retriable}),
// which carries no status at all.
type TransferResponse struct {
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`

	Code      int    `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	Retriable bool   `json:"retriable,omitempty"`
}

// Outcome interprets the declared status.
func (r TransferResponse) Outcome() TransferOutcome {
	if r.Status == TransferStatusOK {
		return TransferSucceeded{TransactionHash: r.TransactionHash}
	}

	message := r.ErrorMessage
	if message == "" {
		message = r.Message
	}
	if message == "" {
		message = DefaultFailureMessage
	}
	return TransferFailed{Message: message}
}

// OutcomeKind labels a settled transfer attempt.
type OutcomeKind string

const (
	OutcomeSuccess      OutcomeKind = "success"
	OutcomeFailure      OutcomeKind = "failure"
	OutcomeNetworkError OutcomeKind = "network_error"
)

// TransferOutcome is the terminal result of one submission attempt:
// TransferSucceeded, TransferFailed or TransferNetworkError.
type TransferOutcome interface {
	Kind() OutcomeKind
	settled()
}

// TransferSucceeded means the backend declared the transfer done.
type TransferSucceeded struct {
	TransactionHash string
}

// TransferFailed means the backend answered but declared a failure.
type TransferFailed struct {
	Message string
}

// TransferNetworkError means no usable answer arrived.
type TransferNetworkError struct {
	Err error
}

func (TransferSucceeded) Kind() OutcomeKind    { return OutcomeSuccess }
func (TransferFailed) Kind() OutcomeKind       { return OutcomeFailure }
func (TransferNetworkError) Kind() OutcomeKind { return OutcomeNetworkError }

func (TransferSucceeded) settled()    {}
func (TransferFailed) settled()       {}
func (TransferNetworkError) settled() {}

package solwatch

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TxnSig is the signature of a confirmed transaction located on-chain.
type TxnSig string

// ErrReferenceNotFound is returned by Locate when no confirmed transaction
// mentions the reference yet. Distinct from a lookup failure: the payment
// stays watched and is retried on the next tick.
var ErrReferenceNotFound = errors.New("no confirmed transaction found for reference")

// ValidateResult is the closed set of transfer-validation outcomes.
type ValidateResult int

const (
	// ValidateOK: at least the expected amount reached the recipient.
	ValidateOK ValidateResult = iota
	// ValidateInsufficient: the recipient was credited, but less than expected.
	ValidateInsufficient
	// ValidateFailed: any other validation failure (wrong recipient,
	// transaction failed on-chain, transport error, ...)
	ValidateFailed
)

// ChainVerifier locates and validates expected payments on one cluster.
// Implementations own their RPC and retry behaviour; the watcher only
// branches on these results.
type ChainVerifier interface {
	// Locate finds a confirmed transaction that references the given key.
	// Returns ErrReferenceNotFound if none exists yet.
	Locate(reference string) (TxnSig, error)
	// Validate confirms the transaction transferred at least amount to recipient.
	// The returned error carries detail when the result is ValidateFailed.
	Validate(sig TxnSig, recipient string, amount decimal.Decimal) (ValidateResult, error)
	// ComputeReceived reports the actual amount the transaction credited
	// to recipient.
	ComputeReceived(sig TxnSig, recipient string) (decimal.Decimal, error)
}

package watcher

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	solwatch "github.com/solpaylabs/solwatch/pkg"
)

// Resolution of one watched payment on one tick.
type Resolution string

const (
	ResolvedExpired            Resolution = "expired"
	ResolvedNotFound           Resolution = "not-found"
	ResolvedError              Resolution = "error"
	ResolvedReceivedTotal      Resolution = "received_total"
	ResolvedReceivedIncomplete Resolution = "received_incomplete"
	ResolvedFailed             Resolution = "failed"
)

// Outcome pairs a resolution with the amount observed on-chain.
// Terminal outcomes leave the watch list after the tick that produced them.
type Outcome struct {
	Resolution Resolution
	Amount     decimal.Decimal
	Terminal   bool
}

// Resolver decides, for one watched payment, between still-pending,
// expired, partially received, fully received, failed or indeterminate.
type Resolver struct {
	verifier    solwatch.ChainVerifier
	retryFailed bool
}

func NewResolver(verifier solwatch.ChainVerifier, retryFailed bool) Resolver {
	return Resolver{verifier: verifier, retryFailed: retryFailed}
}

// Resolve runs the decision chain for one payment. First match wins:
// expiration precedes any chain query, so an already-expired payment is
// never queried.
func (r Resolver) Resolve(p solwatch.WatchedPayment, now time.Time) Outcome {
	if p.Expiration > 0 && elapsedMinutes(p.CreatedAt, now) >= p.Expiration {
		return Outcome{ResolvedExpired, decimal.Zero, true}
	}

	sig, err := r.verifier.Locate(p.Reference)
	if err != nil {
		if errors.Is(err, solwatch.ErrReferenceNotFound) {
			return Outcome{ResolvedNotFound, decimal.Zero, false}
		}
		log.Printf("Watcher: locate '%s': %v\n", p.Reference, err)
		return Outcome{ResolvedError, decimal.Zero, false}
	}

	result, err := r.verifier.Validate(sig, p.Recipient, p.ExpectedAmount)
	switch result {
	case solwatch.ValidateOK:
		return Outcome{ResolvedReceivedTotal, p.ExpectedAmount, true}
	case solwatch.ValidateInsufficient:
		// compute the actual amount rather than assume it
		amount, cerr := r.verifier.ComputeReceived(sig, p.Recipient)
		if cerr != nil {
			log.Printf("Watcher: compute received '%s': %v\n", p.Reference, cerr)
			return Outcome{ResolvedError, decimal.Zero, false}
		}
		return Outcome{ResolvedReceivedIncomplete, amount, true}
	default:
		if err != nil {
			log.Printf("Watcher: validate '%s': %v\n", p.Reference, err)
		}
		return Outcome{ResolvedFailed, decimal.Zero, !r.retryFailed}
	}
}

// elapsedMinutes floors to whole minutes, so an N-minute window can fire
// only once elapsed time floors to N.
func elapsedMinutes(createdAt, now time.Time) int {
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return int(elapsed.Minutes())
}

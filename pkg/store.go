package solwatch

import (
	"github.com/shopspring/decimal"
)

// Store is the durable record of every payment link and its lifecycle
// status. Updates are independent and idempotent, keyed by link ID:
// the watcher logs persistence failures but never aborts on them.
type Store interface {
	// AddLink stores a new payment link record.
	AddLink(link PaymentLink) error
	// GetLink returns the link with the given ID.
	GetLink(id string) (PaymentLink, error)
	// ListWatchable returns every link whose status is created or pending.
	// Used at process start to seed the per-network watch lists.
	ListWatchable() ([]PaymentLink, error)
	// UpdatePending marks the link as pending (under active watch).
	UpdatePending(id string) error
	// UpdateExpired marks the link as expired.
	UpdateExpired(id string) error
	// UpdateReceived records a received status and the amount observed
	// on-chain (equal to the expected amount for received_total,
	// independently computed for received_incomplete).
	UpdateReceived(id string, status LinkStatus, amount decimal.Decimal) error
	// Defer this until shutdown
	Close()
}

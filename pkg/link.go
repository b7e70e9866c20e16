package solwatch

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/shopspring/decimal"
)

// Network identifies which Solana cluster a payment link is watched on.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
)

// Networks lists every cluster we run a watcher for.
var Networks = []Network{Mainnet, Testnet, Devnet}

func ValidNetwork(n Network) bool {
	for _, known := range Networks {
		if n == known {
			return true
		}
	}
	return false
}

// LinkStatus is the persisted lifecycle status of a payment link.
// Forward transitions only: created -> pending -> received_total |
// received_incomplete | expired | failed.
type LinkStatus string

const (
	StatusCreated            LinkStatus = "created"
	StatusPending            LinkStatus = "pending"
	StatusReceivedTotal      LinkStatus = "received_total"
	StatusReceivedIncomplete LinkStatus = "received_incomplete"
	StatusExpired            LinkStatus = "expired"
	StatusFailed             LinkStatus = "failed"
)

// PaymentLink is the authoritative record of a payment request.
// The store owns the historical status; the per-network watch lists only
// hold the subset that still needs checking (see WatchedPayment).
type PaymentLink struct {
	ID             string          `json:"id"`
	Nickname       string          `json:"nickname"`
	UserID         string          `json:"user_id"`
	AccountID      string          `json:"account_id"`
	Link           string          `json:"link"` // solana: pay URL
	Reference      string          `json:"reference"`
	Recipient      string          `json:"recipient"`
	Network        Network         `json:"network"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Status         LinkStatus      `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Expiration     int             `json:"expiration"` // minutes, 0 = never expires
	Expired        bool            `json:"expired"`
}

// WatchedPayment is the in-memory view of a link under active observation.
// All fields are immutable once the payment enters a watch list.
type WatchedPayment struct {
	ID             string
	Reference      string
	Recipient      string
	ExpectedAmount decimal.Decimal
	Network        Network
	Expiration     int // minutes, 0 = never expires
	CreatedAt      time.Time
}

// Watched returns the watch-list view of the link.
// Expiration is measured from the record's CreatedAt, not from watch-start.
func (l PaymentLink) Watched() WatchedPayment {
	return WatchedPayment{
		ID:             l.ID,
		Reference:      l.Reference,
		Recipient:      l.Recipient,
		ExpectedAmount: l.ExpectedAmount,
		Network:        l.Network,
		Expiration:     l.Expiration,
		CreatedAt:      l.CreatedAt,
	}
}

// LinkEvent is sent on the bus when a watched link changes status.
type LinkEvent struct {
	LinkID  string          `json:"link_id"`
	Network Network         `json:"network"`
	Status  LinkStatus      `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewReference generates a unique base58 reference key to embed in the
// expected transaction, so it can be located on-chain without knowing
// its signature in advance.
func NewReference() (string, error) {
	key, err := rsa.GenerateKey(rand.Reader, 256)
	if err != nil {
		return "", err
	}
	return base58.Encode(key.PublicKey.N.Bytes()), nil
}

// NewLinkID returns a random record identifier.
func NewLinkID() string {
	bytes := make([]byte, 12)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// PayLinkURL formats the Solana Pay URL encoded in the link's QR code.
func PayLinkURL(recipient string, reference string, amount decimal.Decimal) string {
	return fmt.Sprintf("solana:%s?amount=%s&reference=%s", recipient, amount.String(), reference)
}

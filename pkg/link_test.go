package solwatch

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPayLinkURL(t *testing.T) {
	amount := decimal.RequireFromString("1.25")
	url := PayLinkURL("RecipientPubkey", "RefPubkey", amount)
	want := "solana:RecipientPubkey?amount=1.25&reference=RefPubkey"
	if url != want {
		t.Fatalf("PayLinkURL: got %q want %q", url, want)
	}
}

func TestNewReference(t *testing.T) {
	a, err := NewReference()
	if err != nil {
		t.Fatal("NewReference:", err)
	}
	if a == "" {
		t.Fatal("NewReference returned empty key")
	}
	b, err := NewReference()
	if err != nil {
		t.Fatal("NewReference:", err)
	}
	if a == b {
		t.Fatal("NewReference returned the same key twice")
	}
}

func TestValidNetwork(t *testing.T) {
	for _, n := range Networks {
		if !ValidNetwork(n) {
			t.Fatalf("expected %s to be valid", n)
		}
	}
	if ValidNetwork("localnet") {
		t.Fatal("expected localnet to be invalid")
	}
}

func TestLinkWatched(t *testing.T) {
	link := PaymentLink{
		ID:             "id1",
		Reference:      "ref1",
		Recipient:      "rcpt1",
		Network:        Testnet,
		ExpectedAmount: decimal.NewFromInt(5),
		Expiration:     10,
	}
	p := link.Watched()
	if p.ID != link.ID || p.Reference != link.Reference || p.Recipient != link.Recipient {
		t.Fatalf("Watched lost identity fields: %+v", p)
	}
	if p.Network != Testnet || p.Expiration != 10 || !p.ExpectedAmount.Equals(link.ExpectedAmount) {
		t.Fatalf("Watched lost watch fields: %+v", p)
	}
}

package solana

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	solwatch "github.com/solpaylabs/solwatch/pkg"
)

// interface guard ensures MockVerifier implements solwatch.ChainVerifier
var _ solwatch.ChainVerifier = &MockVerifier{}

// MockVerifier is a scriptable solwatch.ChainVerifier for tests and
// offline runs: script payments with Pay / FailPayment, force lookup
// failures with SetLocateErr.
type MockVerifier struct {
	mu        sync.Mutex
	payments  map[string]mockPayment
	locateErr error
}

type mockPayment struct {
	sig      solwatch.TxnSig
	received decimal.Decimal
	invalid  bool
}

// NewMockVerifier returns a verifier that knows no transactions:
// every Locate reports not-found until a payment is scripted.
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{payments: make(map[string]mockPayment)}
}

// Pay scripts a confirmed transaction crediting `received` to whatever
// recipient is validated against the reference.
func (m *MockVerifier) Pay(reference string, sig solwatch.TxnSig, received decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[reference] = mockPayment{sig: sig, received: received}
}

// FailPayment scripts a located transaction that fails validation.
func (m *MockVerifier) FailPayment(reference string, sig solwatch.TxnSig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[reference] = mockPayment{sig: sig, invalid: true}
}

// SetLocateErr makes every Locate fail with err (a lookup error, not a
// not-found). Pass nil to clear.
func (m *MockVerifier) SetLocateErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locateErr = err
}

func (m *MockVerifier) Locate(reference string) (solwatch.TxnSig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locateErr != nil {
		return "", m.locateErr
	}
	p, ok := m.payments[reference]
	if !ok {
		return "", solwatch.ErrReferenceNotFound
	}
	return p.sig, nil
}

func (m *MockVerifier) Validate(sig solwatch.TxnSig, recipient string, amount decimal.Decimal) (solwatch.ValidateResult, error) {
	p, ok := m.findBySig(sig)
	if !ok || p.invalid {
		return solwatch.ValidateFailed, fmt.Errorf("mock: validation failed for %s", sig)
	}
	if p.received.Cmp(amount) >= 0 {
		return solwatch.ValidateOK, nil
	}
	if p.received.IsPositive() {
		return solwatch.ValidateInsufficient, nil
	}
	return solwatch.ValidateFailed, fmt.Errorf("mock: %s not credited", recipient)
}

func (m *MockVerifier) ComputeReceived(sig solwatch.TxnSig, recipient string) (decimal.Decimal, error) {
	p, ok := m.findBySig(sig)
	if !ok {
		return decimal.Zero, fmt.Errorf("mock: unknown transaction %s", sig)
	}
	return p.received, nil
}

func (m *MockVerifier) findBySig(sig solwatch.TxnSig) (mockPayment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.sig == sig {
			return p, true
		}
	}
	return mockPayment{}, false
}

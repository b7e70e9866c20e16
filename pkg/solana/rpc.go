package solana

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/shopspring/decimal"
	solwatch "github.com/solpaylabs/solwatch/pkg"
)

// interface guard ensures RPCVerifier implements solwatch.ChainVerifier
var _ solwatch.ChainVerifier = &RPCVerifier{}

// lamports per SOL
var lamports = decimal.New(1, 9)

// NewRPCVerifier returns a solwatch.ChainVerifier that talks JSON-RPC to a
// Solana cluster endpoint, at 'confirmed' commitment.
func NewRPCVerifier(url string) *RPCVerifier {
	return &RPCVerifier{url: url}
}

type RPCVerifier struct {
	url string
	id  uint64 // serial for request IDs, incremented atomically
}

type rpcRequest struct {
	JsonRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	Id      uint64 `json:"id"`
}
type rpcResponse struct {
	Id     uint64           `json:"id"`
	Result *json.RawMessage `json:"result"`
	Error  any              `json:"error"`
}

func (v *RPCVerifier) request(method string, params []any, result any) error {
	body := rpcRequest{
		JsonRPC: "2.0",
		Method:  method,
		Params:  params,
		// each request must use a unique ID; the verifier is shared by
		// concurrent resolver goroutines
		Id: atomic.AddUint64(&v.id, 1),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("json-rpc marshal request: %v", err)
	}
	req, err := http.NewRequest("POST", v.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("json-rpc request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("json-rpc transport: %v", err)
	}
	// we MUST read all of res.Body and call res.Close,
	// otherwise the underlying connection cannot be re-used.
	defer res.Body.Close()
	res_bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("json-rpc read response: %v", err)
	}
	if res.StatusCode != 200 {
		return fmt.Errorf("json-rpc status code: %s", res.Status)
	}
	var rpcres rpcResponse
	err = json.Unmarshal(res_bytes, &rpcres)
	if err != nil {
		return fmt.Errorf("json-rpc unmarshal response: %v", err)
	}
	if rpcres.Id != body.Id {
		return fmt.Errorf("json-rpc wrong ID returned: %v vs %v", rpcres.Id, body.Id)
	}
	if rpcres.Error != nil {
		return fmt.Errorf("json-rpc error returned: %v", rpcres.Error)
	}
	if rpcres.Result == nil {
		return fmt.Errorf("json-rpc missing result")
	}
	err = json.Unmarshal(*rpcres.Result, result)
	if err != nil {
		return fmt.Errorf("json-rpc unmarshal result: %v | %v", err, string(*rpcres.Result))
	}
	return nil
}

type signatureInfo struct {
	Signature          string `json:"signature"`
	Err                any    `json:"err"`
	ConfirmationStatus string `json:"confirmationStatus"`
}

type txnInfo struct {
	Meta struct {
		Err          any      `json:"err"`
		PreBalances  []uint64 `json:"preBalances"`
		PostBalances []uint64 `json:"postBalances"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			AccountKeys []string `json:"accountKeys"`
		} `json:"message"`
	} `json:"transaction"`
}

// Locate finds the confirmed transaction mentioning the reference key.
// The reference is an account in the transaction, so the signature list
// for the reference address yields the transaction; the oldest entry is
// the payment (later ones would be spends or noise).
func (v *RPCVerifier) Locate(reference string) (solwatch.TxnSig, error) {
	sigs := []signatureInfo{}
	err := v.request("getSignaturesForAddress",
		[]any{reference, map[string]any{"limit": 1000, "commitment": "confirmed"}}, &sigs)
	if err != nil {
		return "", err
	}
	for i := len(sigs) - 1; i >= 0; i-- {
		if sigs[i].Err == nil {
			return solwatch.TxnSig(sigs[i].Signature), nil
		}
	}
	return "", solwatch.ErrReferenceNotFound
}

func (v *RPCVerifier) Validate(sig solwatch.TxnSig, recipient string, amount decimal.Decimal) (solwatch.ValidateResult, error) {
	received, err := v.received(sig, recipient)
	if err != nil {
		return solwatch.ValidateFailed, err
	}
	if received.Cmp(amount) >= 0 {
		return solwatch.ValidateOK, nil
	}
	if received.IsPositive() {
		return solwatch.ValidateInsufficient, nil
	}
	return solwatch.ValidateFailed, fmt.Errorf("recipient %s not credited by %s", recipient, sig)
}

func (v *RPCVerifier) ComputeReceived(sig solwatch.TxnSig, recipient string) (decimal.Decimal, error) {
	return v.received(sig, recipient)
}

// received computes the recipient's balance delta in SOL.
func (v *RPCVerifier) received(sig solwatch.TxnSig, recipient string) (decimal.Decimal, error) {
	txn := txnInfo{}
	err := v.request("getTransaction", []any{string(sig), map[string]any{"commitment": "confirmed"}}, &txn)
	if err != nil {
		return decimal.Zero, err
	}
	if txn.Meta.Err != nil {
		return decimal.Zero, fmt.Errorf("transaction %s failed on-chain: %v", sig, txn.Meta.Err)
	}
	index := -1
	for i, key := range txn.Transaction.Message.AccountKeys {
		if key == recipient {
			index = i
			break
		}
	}
	if index < 0 || index >= len(txn.Meta.PreBalances) || index >= len(txn.Meta.PostBalances) {
		return decimal.Zero, fmt.Errorf("recipient %s not found in transaction %s", recipient, sig)
	}
	delta := int64(txn.Meta.PostBalances[index]) - int64(txn.Meta.PreBalances[index])
	return decimal.NewFromInt(delta).Div(lamports), nil
}

package solana

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	solwatch "github.com/solpaylabs/solwatch/pkg"
)

// stub JSON-RPC endpoint that records request IDs and answers every
// getSignaturesForAddress with an empty signature list.
func newRPCStub(t *testing.T) (*httptest.Server, *sync.Map) {
	t.Helper()
	ids := &sync.Map{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Id uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error("stub: decoding request:", err)
		}
		if _, dup := ids.LoadOrStore(req.Id, true); dup {
			t.Errorf("stub: duplicate request ID %d", req.Id)
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":[]}`, req.Id)
	}))
	t.Cleanup(srv.Close)
	return srv, ids
}

func TestLocateNotFound(t *testing.T) {
	srv, _ := newRPCStub(t)
	v := NewRPCVerifier(srv.URL)
	_, err := v.Locate("ref1")
	if !errors.Is(err, solwatch.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestRequestIDsUniqueUnderConcurrency(t *testing.T) {
	// one verifier is shared by a whole tick's resolver pool, so IDs must
	// stay unique when requests overlap
	srv, ids := newRPCStub(t)
	v := NewRPCVerifier(srv.URL)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := v.Locate(fmt.Sprintf("ref-%d", i))
			if !errors.Is(err, solwatch.ErrReferenceNotFound) {
				t.Errorf("Locate: unexpected error %v", err)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	ids.Range(func(_, _ any) bool { count++; return true })
	if count != n {
		t.Fatalf("expected %d distinct request IDs, got %d", n, count)
	}
}

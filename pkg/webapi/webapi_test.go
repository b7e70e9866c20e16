package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/solpaylabs/solwatch/pkg/store"
)

type testRig struct {
	admin *httptest.Server
	pub   *httptest.Server
	lists map[solwatch.Network]*solwatch.WatchList
	store store.SQLiteStore
}

func newTestRig(t *testing.T) testRig {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal("NewSQLiteStore:", err)
	}
	t.Cleanup(db.Close)

	bus := solwatch.NewMessageBus()
	bus.Run(make(chan bool, 1), make(chan bool, 1), make(chan context.Context))

	lists := make(map[solwatch.Network]*solwatch.WatchList)
	for _, n := range solwatch.Networks {
		lists[n] = solwatch.NewWatchList()
	}

	api := solwatch.NewAPI(db, bus, lists)
	web, err := NewWebAPI(solwatch.TestConfig(), api)
	if err != nil {
		t.Fatal("NewWebAPI:", err)
	}
	adminMux, pubMux := web.createRouters()

	rig := testRig{
		admin: httptest.NewServer(adminMux),
		pub:   httptest.NewServer(pubMux),
		lists: lists,
		store: db,
	}
	t.Cleanup(rig.admin.Close)
	t.Cleanup(rig.pub.Close)
	return rig
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal("POST:", err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal("reading response:", err)
	}
	return res.StatusCode, string(b)
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatal("GET:", err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal("reading response:", err)
	}
	return res, b
}

func TestWatchLinkBadPayload(t *testing.T) {
	rig := newTestRig(t)

	// malformed json
	code, body := post(t, rig.pub.URL+"/link", "{nope")
	if code != http.StatusBadRequest || body != `{"error":"dados invalidos"}` {
		t.Fatalf("malformed json: got %d %s", code, body)
	}

	// missing recipient
	code, body = post(t, rig.pub.URL+"/link",
		`{"id":"L1","reference":"ref1","amount":"5","network":"devnet"}`)
	if code != http.StatusBadRequest || body != `{"error":"dados invalidos"}` {
		t.Fatalf("missing recipient: got %d %s", code, body)
	}

	// non-positive amount
	code, body = post(t, rig.pub.URL+"/link",
		`{"id":"L1","reference":"ref1","recipient":"rcpt","amount":"0","network":"devnet"}`)
	if code != http.StatusBadRequest || body != `{"error":"dados invalidos"}` {
		t.Fatalf("zero amount: got %d %s", code, body)
	}

	// omitted network is a missing field, not an unrecognized network
	code, body = post(t, rig.pub.URL+"/link",
		`{"id":"L1","reference":"ref1","recipient":"rcpt","amount":"5"}`)
	if code != http.StatusBadRequest || body != `{"error":"dados invalidos"}` {
		t.Fatalf("missing network: got %d %s", code, body)
	}
}

func TestWatchLinkBadNetwork(t *testing.T) {
	rig := newTestRig(t)
	code, body := post(t, rig.pub.URL+"/link",
		`{"id":"L1","reference":"ref1","recipient":"rcpt","amount":"5","network":"localnet"}`)
	if code != http.StatusBadRequest || body != `{"error":"network invalida"}` {
		t.Fatalf("bad network: got %d %s", code, body)
	}
}

func TestWatchLink(t *testing.T) {
	rig := newTestRig(t)
	code, body := post(t, rig.pub.URL+"/link",
		`{"id":"L1","reference":"ref1","recipient":"rcpt","amount":"5","network":"devnet","expiration":10}`)
	if code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d %s", code, body)
	}
	if body != "" {
		t.Fatalf("expected empty body, got %q", body)
	}

	snap := rig.lists[solwatch.Devnet].Snapshot()
	if len(snap) != 1 || snap[0].ID != "L1" {
		t.Fatalf("link not watched on devnet: %v", snap)
	}
	if snap[0].Expiration != 10 || !snap[0].ExpectedAmount.Equals(decimal.NewFromInt(5)) {
		t.Fatalf("watch entry lost fields: %+v", snap[0])
	}
	if rig.lists[solwatch.Mainnet].Len() != 0 {
		t.Fatal("link leaked onto another network's list")
	}
}

func TestCreateAndGetLink(t *testing.T) {
	rig := newTestRig(t)
	res, err := http.Post(rig.admin.URL+"/admin/link", "application/json",
		bytes.NewReader([]byte(`{"nickname":"coffee","recipient":"rcpt","amount":"1.25","network":"testnet","expiration":15}`)))
	if err != nil {
		t.Fatal("POST:", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var link solwatch.PaymentLink
	if err := json.NewDecoder(res.Body).Decode(&link); err != nil {
		t.Fatal("decoding link:", err)
	}
	if link.ID == "" || link.Reference == "" {
		t.Fatalf("created link missing id/reference: %+v", link)
	}
	if link.Status != solwatch.StatusPending {
		t.Fatalf("created link should be pending, got %s", link.Status)
	}
	if !strings.HasPrefix(link.Link, "solana:rcpt?amount=1.25&reference=") {
		t.Fatalf("unexpected pay URL: %s", link.Link)
	}
	if rig.lists[solwatch.Testnet].Len() != 1 {
		t.Fatal("created link not watched")
	}

	// the record is served back over the public surface
	getRes, body := get(t, rig.pub.URL+"/link/"+link.ID)
	if getRes.StatusCode != http.StatusOK {
		t.Fatalf("GET link: got %d %s", getRes.StatusCode, body)
	}
	var stored solwatch.PaymentLink
	if err := json.Unmarshal(body, &stored); err != nil {
		t.Fatal("decoding stored link:", err)
	}
	if stored.ID != link.ID || stored.Reference != link.Reference {
		t.Fatalf("stored link differs: %+v", stored)
	}
}

func TestGetLinkNotFound(t *testing.T) {
	rig := newTestRig(t)
	res, body := get(t, rig.pub.URL+"/link/missing")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", res.StatusCode, body)
	}
}

func TestGetLinkQR(t *testing.T) {
	rig := newTestRig(t)
	res, err := http.Post(rig.admin.URL+"/admin/link", "application/json",
		bytes.NewReader([]byte(`{"recipient":"rcpt","amount":"2","network":"devnet"}`)))
	if err != nil {
		t.Fatal("POST:", err)
	}
	defer res.Body.Close()
	var link solwatch.PaymentLink
	if err := json.NewDecoder(res.Body).Decode(&link); err != nil {
		t.Fatal("decoding link:", err)
	}

	qrRes, png := get(t, rig.pub.URL+"/link/"+link.ID+"/qr.png")
	if qrRes.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", qrRes.StatusCode)
	}
	if ct := qrRes.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("response is not a PNG")
	}
}

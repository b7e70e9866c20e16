package solwatch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func watched(id string) WatchedPayment {
	return WatchedPayment{
		ID:             id,
		Reference:      "ref-" + id,
		Recipient:      "recipient",
		ExpectedAmount: decimal.NewFromInt(5),
		Network:        Devnet,
		CreatedAt:      time.Now(),
	}
}

func TestWatchListAddSnapshot(t *testing.T) {
	list := NewWatchList()
	list.Add(watched("a"))
	list.Add(watched("b"))

	snap := list.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries in snapshot, got %d", len(snap))
	}
	if snap[0].ID != "a" || snap[1].ID != "b" {
		t.Fatalf("snapshot lost insertion order: %v", snap)
	}

	// mutating the list must not affect a snapshot already taken
	list.Add(watched("c"))
	if len(snap) != 2 {
		t.Fatalf("snapshot changed after Add: %d", len(snap))
	}
	if list.Len() != 3 {
		t.Fatalf("expected 3 entries in list, got %d", list.Len())
	}
}

func TestWatchListRemoveWhere(t *testing.T) {
	list := NewWatchList()
	for _, id := range []string{"a", "b", "c", "d"} {
		list.Add(watched(id))
	}
	list.RemoveWhere(func(p WatchedPayment) bool {
		return p.ID == "b" || p.ID == "d"
	})

	snap := list.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries after RemoveWhere, got %d", len(snap))
	}
	if snap[0].ID != "a" || snap[1].ID != "c" {
		t.Fatalf("RemoveWhere removed wrong entries: %v", snap)
	}
}

func TestWatchListConcurrentAccess(t *testing.T) {
	list := NewWatchList()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				list.Add(watched(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for range list.Snapshot() {
				}
				list.RemoveWhere(func(p WatchedPayment) bool { return false })
			}
		}()
	}
	wg.Wait()

	if list.Len() != 1000 {
		t.Fatalf("expected 1000 entries after concurrent adds, got %d", list.Len())
	}
}

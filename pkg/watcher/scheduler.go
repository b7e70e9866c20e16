package watcher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/tjstebbing/conductor"
)

// Watcher polls one network's watch list at a fixed period, resolves every
// entry and applies persisted status updates. Ticks are single-flight: if a
// tick is still resolving when the next period fires, the new tick is
// skipped rather than overlapping it.
type Watcher struct {
	network  solwatch.Network
	list     *solwatch.WatchList
	store    solwatch.Store
	bus      solwatch.MessageBus
	resolver Resolver
	period   time.Duration
	inflight int
}

// interface guard ensures Watcher implements conductor.Service
var _ conductor.Service = Watcher{}

func NewWatcher(network solwatch.Network, list *solwatch.WatchList, store solwatch.Store,
	bus solwatch.MessageBus, verifier solwatch.ChainVerifier, conf solwatch.Config) Watcher {
	inflight := conf.Watcher.MaxInFlight
	if inflight <= 0 {
		inflight = 16
	}
	return Watcher{
		network:  network,
		list:     list,
		store:    store,
		bus:      bus,
		resolver: NewResolver(verifier, conf.Watcher.RetryFailed),
		period:   time.Duration(conf.PollPeriod()) * time.Second,
		inflight: inflight,
	}
}

// Implements conductor.Service
func (w Watcher) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		started <- true
		w.bus.Send(solwatch.SYS_STARTUP, fmt.Sprintf("watcher %s", w.network))
		ticker := time.NewTicker(w.period)
		defer ticker.Stop()
		busy := make(chan struct{}, 1)
		for {
			select {
			case <-stop:
				close(stopped)
				return
			case <-ticker.C:
				select {
				case busy <- struct{}{}:
					go func() {
						defer func() { <-busy }()
						w.runTick(time.Now())
					}()
				default:
					log.Printf("Watcher[%s]: previous tick still running, skipping\n", w.network)
				}
			}
		}
	}()
	return nil
}

// runTick resolves a snapshot of the watch list. Every entry gets exactly
// one resolution attempt; removal is applied only after all resolutions
// for the tick complete.
func (w Watcher) runTick(now time.Time) {
	entries := w.list.Snapshot()
	log.Printf("Watcher[%s]: checking %d active links\n", w.network, len(entries))

	var wg sync.WaitGroup
	var mu sync.Mutex
	remove := make(map[string]bool)
	sem := make(chan struct{}, w.inflight)

	for _, p := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(p solwatch.WatchedPayment) {
			defer wg.Done()
			defer func() { <-sem }()
			outcome := w.resolver.Resolve(p, now)
			w.applyOutcome(p, outcome)
			if outcome.Terminal {
				mu.Lock()
				remove[p.ID] = true
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	if len(remove) > 0 {
		w.list.RemoveWhere(func(p solwatch.WatchedPayment) bool {
			return remove[p.ID]
		})
	}
}

// applyOutcome persists the status transition and notifies the bus.
// Persistence failures are logged only: removal from the watch list is not
// conditional on a successful update, the store is reconciled from
// ListWatchable on the next process start.
func (w Watcher) applyOutcome(p solwatch.WatchedPayment, outcome Outcome) {
	switch outcome.Resolution {
	case ResolvedExpired:
		if err := w.store.UpdateExpired(p.ID); err != nil {
			log.Printf("Watcher[%s]: UpdateExpired '%s': %v\n", w.network, p.ID, err)
		}
		w.sendEvent(solwatch.LINK_EXPIRED, p, solwatch.StatusExpired, outcome)
	case ResolvedReceivedTotal:
		if err := w.store.UpdateReceived(p.ID, solwatch.StatusReceivedTotal, outcome.Amount); err != nil {
			log.Printf("Watcher[%s]: UpdateReceived '%s': %v\n", w.network, p.ID, err)
		}
		w.sendEvent(solwatch.LINK_RECEIVED_TOTAL, p, solwatch.StatusReceivedTotal, outcome)
	case ResolvedReceivedIncomplete:
		if err := w.store.UpdateReceived(p.ID, solwatch.StatusReceivedIncomplete, outcome.Amount); err != nil {
			log.Printf("Watcher[%s]: UpdateReceived '%s': %v\n", w.network, p.ID, err)
		}
		w.sendEvent(solwatch.LINK_RECEIVED_INCOMPLETE, p, solwatch.StatusReceivedIncomplete, outcome)
	case ResolvedFailed:
		log.Printf("Watcher[%s]: validation failed for '%s'\n", w.network, p.ID)
		w.sendEvent(solwatch.LINK_FAILED, p, solwatch.StatusFailed, outcome)
	case ResolvedNotFound, ResolvedError:
		// not terminal, retried next tick
	}
}

func (w Watcher) sendEvent(t solwatch.EventType, p solwatch.WatchedPayment, status solwatch.LinkStatus, outcome Outcome) {
	err := w.bus.Send(t, solwatch.LinkEvent{
		LinkID:  p.ID,
		Network: w.network,
		Status:  status,
		Amount:  outcome.Amount,
	}, p.ID)
	if err != nil {
		log.Printf("Watcher[%s]: bus error for '%s': %v\n", w.network, p.ID, err)
	}
}

package watcher

import (
	"log"

	solwatch "github.com/solpaylabs/solwatch/pkg"
)

// LoadWatchLists seeds one watch list per network from the store: every
// record still marked created or pending goes back under watch, and
// created records are promoted to pending. An error here aborts startup,
// there is no partial start.
func LoadWatchLists(store solwatch.Store) (map[solwatch.Network]*solwatch.WatchList, error) {
	links, err := store.ListWatchable()
	if err != nil {
		return nil, err
	}

	lists := make(map[solwatch.Network]*solwatch.WatchList, len(solwatch.Networks))
	for _, network := range solwatch.Networks {
		lists[network] = solwatch.NewWatchList()
	}

	for _, link := range links {
		list, ok := lists[link.Network]
		if !ok {
			log.Printf("Bootstrap: skipping link '%s': unknown network '%s'\n", link.ID, link.Network)
			continue
		}
		if link.Status == solwatch.StatusCreated {
			if err := store.UpdatePending(link.ID); err != nil {
				log.Printf("Bootstrap: UpdatePending '%s': %v\n", link.ID, err)
			}
		}
		list.Add(link.Watched())
	}

	for _, network := range solwatch.Networks {
		log.Printf("Bootstrap: watching %d links on %s\n", lists[network].Len(), network)
	}
	return lists, nil
}

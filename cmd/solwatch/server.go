package main

import (
	"fmt"

	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/solpaylabs/solwatch/pkg/receivers"
	"github.com/solpaylabs/solwatch/pkg/solana"
	"github.com/solpaylabs/solwatch/pkg/store"
	"github.com/solpaylabs/solwatch/pkg/watcher"
	"github.com/solpaylabs/solwatch/pkg/webapi"
	"github.com/tjstebbing/conductor"
)

func Server(conf solwatch.Config) {

	c := conductor.NewConductor(
		conductor.HookSignals(),
		conductor.Noisy(),
	)

	// Start the MessageBus Service
	bus := solwatch.NewMessageBus()
	c.Service("MessageBus", bus)

	// Set up all configured receivers
	receivers.SetUpReceivers(c, bus, conf)

	// Set up the record store
	db, err := store.NewSQLiteStore(conf.Solwatch.DBFile)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	// Reload links still awaiting resolution into the watch lists
	lists, err := watcher.LoadWatchLists(db)
	if err != nil {
		panic(err)
	}

	// Start one watcher per network
	for _, network := range solwatch.Networks {
		verifier := solana.NewRPCVerifier(conf.RPCAddr(network))
		w := watcher.NewWatcher(network, lists[network], db, bus, verifier, conf)
		c.Service(fmt.Sprintf("Watcher %s", network), w)
	}

	// Start the Link API
	api := solwatch.NewAPI(db, bus, lists)
	p, err := webapi.NewWebAPI(conf, api)
	if err != nil {
		panic(err)
	}
	c.Service("Link API", p)

	<-c.Start()
}

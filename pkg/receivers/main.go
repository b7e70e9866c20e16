package receivers

import (
	"fmt"

	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/solpaylabs/solwatch/pkg/event"
	"github.com/tjstebbing/conductor"
)

// Sets up standard receivers.
func SetUpReceivers(cond *conductor.Conductor, bus solwatch.MessageBus, conf solwatch.Config) {
	// Set up configured loggers
	SetupLoggers(cond, bus, conf)

	// Set up the ZMQ status emitter
	SetupStatusEmitter(cond, bus, conf)
}

// SetupStatusEmitter starts the ZMQ publisher when one is configured.
// It subscribes to link events only; SYS noise stays in the logs.
func SetupStatusEmitter(cond *conductor.Conductor, bus solwatch.MessageBus, conf solwatch.Config) {
	if conf.ZMQ.Bind == "" {
		return
	}
	emitter, err := event.NewStatusEmitter(conf.ZMQ.Bind)
	if err != nil {
		fmt.Printf("⚠️  StatusEmitter: cannot bind %s: %v\n", conf.ZMQ.Bind, err)
		return
	}
	cond.Service("ZMQ Status Emitter", emitter)
	bus.Register(emitter, solwatch.EVENT_LINK("LINK"))
}

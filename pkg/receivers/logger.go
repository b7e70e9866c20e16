package receivers

import (
	"context"
	"fmt"
	"log"

	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/tjstebbing/conductor"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EventLogger writes bus messages to a rotated log file.
type EventLogger struct {
	// EventLogger receives solwatch.Message via Rec
	Rec chan solwatch.Message
	// and logs them via Log
	Log *log.Logger
}

// Implements solwatch.MessageSubscriber
func (l EventLogger) GetChan() chan solwatch.Message {
	return l.Rec
}

// Implements conductor.Service
func (l EventLogger) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		started <- true
		for {
			select {
			case <-stop:
				close(l.Rec)
				close(stopped)
				return
			case msg := <-l.Rec:
				l.Log.Printf("%s:%s (%s): %s\n",
					msg.EventType.Type(),
					msg.EventType,
					msg.ID,
					msg.Message)
			}
		}
	}()
	return nil
}

func NewEventLogger(path string) EventLogger {
	return EventLogger{
		make(chan solwatch.Message, 1000),
		log.New(&lumberjack.Logger{
			Filename: path,
			Compress: true,
		}, "", log.Ltime|log.Lmicroseconds),
	}
}

// Reads config and sets up any configured loggers
func SetupLoggers(cond *conductor.Conductor, bus solwatch.MessageBus, conf solwatch.Config) {
	for name, c := range conf.Loggers {
		l := NewEventLogger(c.Path)
		cond.Service(fmt.Sprintf("Logger %s", c.Path), l)

		types := []solwatch.EventType{}
		for _, t := range c.Types {
			match := false
			for _, x := range solwatch.EVENT_TYPES {
				if t == x.Type() {
					match = true
					types = append(types, x)
				}
			}
			if !match {
				fmt.Printf("⚠️  Logger %s: ignoring invalid message type: %s\n", name, t)
			}
		}
		bus.Register(l, types...)
	}
}

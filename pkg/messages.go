package solwatch

/*
The message subsystem exists to allow event-based access to the watcher's
status transitions, for integration purposes.

A simple internal 'message bus' is passed around internally, with an
internal goroutine and a 'send' method for sending 'messages'.

Outbound destinations are created in config, which result in these
messages being routed to various external services, ie: ZMQ, log-files.
These are managed by MessageSubscribers: registered with the bus along
with the list of EventTypes they want to subscribe to.
*/

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
)

// MessageSubscribers are things that subscribe to the bus and handle
// messages, ie: ZMQ publishers, log files, http callbacks etc.
type MessageSubscriber interface {
	GetChan() chan Message
}

// Created by the bus, wraps whatever was sent with Send
type Message struct {
	EventType EventType
	Message   []byte
	ID        string // optional
}

type Subscription struct {
	dest  MessageSubscriber
	types []EventType
}

func NewMessageBus() MessageBus {
	return MessageBus{
		register:   make(chan Subscription, 10),
		unregister: make(chan MessageSubscriber, 10),
		receivers:  make(map[*Subscription]bool),
		inbound:    make(chan Message, 1),
	}
}

type MessageBus struct {
	// Registered MessageSubscribers.
	receivers map[*Subscription]bool

	// Register requests for MessageSubscribers.
	register chan Subscription

	// Unregister requests from MessageSubscribers.
	unregister chan MessageSubscriber

	// Messages from Send(), destined for MessageSubscribers
	inbound chan Message
}

// Send a message to the bus with a specific EventType.
// msg can be anything JSON serialisable, this will be turned into a
// Message and delivered to any interested MessageSubscribers.
func (b MessageBus) Send(t EventType, msg interface{}, msgID ...string) error {
	j, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if len(msgID) == 0 {
		b.inbound <- Message{t, j, generateID()}
	} else {
		b.inbound <- Message{t, j, msgID[0]}
	}
	return nil
}

func (b MessageBus) Register(m MessageSubscriber, types ...EventType) {
	b.register <- Subscription{m, types}
}

// Unregister removes every subscription held by m and closes its channel.
func (b MessageBus) Unregister(m MessageSubscriber) {
	b.unregister <- m
}

// wants matches on event category, so subscribing to EVENT_LINK("LINK")
// receives every LINK_* event.
func (s *Subscription) wants(t EventType) bool {
	for _, sub := range s.types {
		if sub.Type() == "ALL" || sub.Type() == t.Type() {
			return true
		}
	}
	return false
}

// Implements conductor.Service
func (b MessageBus) Run(started, stopped chan bool, stop chan context.Context) error {

	go func() {
		stopBus := make(chan bool)
		go func() {
			for {
				select {
				case <-stopBus:
					return
				case sub := <-b.register:
					b.receivers[&sub] = true
				case m := <-b.unregister:
					closed := false
					for sub := range b.receivers {
						if sub.dest == m {
							delete(b.receivers, sub)
							// close once even if m registered twice
							if !closed {
								close(sub.dest.GetChan())
								closed = true
							}
						}
					}
				case message := <-b.inbound:
					for sub := range b.receivers {
						if !sub.wants(message.EventType) {
							continue
						}
						select {
						case sub.dest.GetChan() <- message:
						default:
							// receiver is not keeping up, cancel the sub
							b.Send(SYS_ERR, struct{ msg string }{msg: "receiver failed to handle msg, closing"})
							close(sub.dest.GetChan())
							delete(b.receivers, sub)
						}
					}
				}
			}
		}()

		started <- true
		<-stop
		close(stopBus)
		stopped <- true
	}()
	return nil
}

// create a short random ID for msgs that have none
func generateID() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:8]
}

package event

import (
	"context"
	"fmt"

	"github.com/pebbe/zmq4"
	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/tjstebbing/conductor"
)

// StatusEmitter republishes bus messages on a ZMQ PUB socket, so external
// services (shops, notification senders) can follow link status changes
// without polling the store. Topic frame is "TYPE:SUBTYPE", payload frame
// is the JSON message body.
type StatusEmitter struct {
	sock *zmq4.Socket
	Rec  chan solwatch.Message
}

// interface guards
var _ solwatch.MessageSubscriber = &StatusEmitter{}
var _ conductor.Service = &StatusEmitter{}

func NewStatusEmitter(bind string) (*StatusEmitter, error) {
	sock, err := zmq4.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, err
	}
	err = sock.Bind(bind)
	if err != nil {
		return nil, err
	}
	return &StatusEmitter{
		sock: sock,
		Rec:  make(chan solwatch.Message, 1000),
	}, nil
}

// Implements solwatch.MessageSubscriber
func (e *StatusEmitter) GetChan() chan solwatch.Message {
	return e.Rec
}

// Implements conductor.Service
func (e *StatusEmitter) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		started <- true
		for {
			select {
			case <-stop:
				e.sock.Close()
				close(stopped)
				return
			case msg := <-e.Rec:
				topic := fmt.Sprintf("%s:%s", msg.EventType.Type(), msg.EventType)
				_, err := e.sock.SendMessage(topic, msg.Message)
				if err != nil {
					fmt.Printf("⚠️  StatusEmitter: send failed: %v\n", err)
				}
			}
		}
	}()
	return nil
}

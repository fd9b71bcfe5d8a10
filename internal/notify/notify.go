// Package notify publishes domain events to Kafka as a fire-and-forget side
// channel. Publishing never blocks a request and never fails one: writes run
// in the background with a short timeout and errors are only logged. With no
// brokers configured the notifier is a no-op.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	Topic        = "gestion-chs-events"
	writeTimeout = 5 * time.Second
)

// Event kinds emitted by the service.
const (
	EventPaymentReceived    = "payment.received"
	EventPaymentMade        = "payment.made"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the wire payload. Keys in Data depend on the event kind.
type Event struct {
	Kind        string            `json:"kind"`
	EncomendaID uuid.UUID         `json:"encomenda_id"`
	Actor       string            `json:"actor,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	At          time.Time         `json:"at"`
}

type Notifier struct {
	writer *kafka.Writer
}

// New builds a notifier for the given brokers. An empty broker list yields
// a disabled notifier whose Publish is a no-op.
func New(brokers []string) *Notifier {
	if len(brokers) == 0 {
		return &Notifier{}
	}
	return &Notifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

// Publish emits the event without tying it to the request lifecycle.
func (n *Notifier) Publish(ev Event) {
	if n == nil || n.writer == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		value, err := json.Marshal(ev)
		if err != nil {
			log.Printf("notify: encode %s: %v", ev.Kind, err)
			return
		}
		msg := kafka.Message{
			Key:   []byte(ev.EncomendaID.String()),
			Value: value,
		}
		if err := n.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("notify: publish %s: %v", ev.Kind, err)
		}
	}()
}

// Close flushes and closes the underlying writer.
func (n *Notifier) Close() error {
	if n == nil || n.writer == nil {
		return nil
	}
	return n.writer.Close()
}

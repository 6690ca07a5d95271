package messaging

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type recordingAcknowledger struct {
	acked    []uint64
	nacked   []uint64
	requeued bool
}

func (a *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeued = a.requeued || requeue
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestConsumeLoopSurvivesHandlerErrors(t *testing.T) {
	ack := &recordingAcknowledger{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("bad")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("ok")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("ok")}
	close(deliveries)

	handled := 0
	consumeLoop("storefront_catalog_refresh", deliveries, func(d amqp.Delivery) error {
		handled++
		if string(d.Body) == "bad" {
			return errors.New("malformed payload")
		}
		return nil
	})

	if handled != 3 {
		t.Errorf("expected all 3 deliveries to reach the handler, got %d", handled)
	}
	if len(ack.nacked) != 1 || ack.nacked[0] != 1 {
		t.Errorf("expected delivery 1 to be nacked, got %v", ack.nacked)
	}
	if ack.requeued {
		t.Error("failed delivery must not be requeued")
	}
	if len(ack.acked) != 2 {
		t.Errorf("expected 2 acked deliveries, got %v", ack.acked)
	}
}

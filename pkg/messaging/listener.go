package messaging

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ListenToTopic consumes the prefixed topic on an exclusive anonymous queue
// and runs handler for every delivery. A handler failure nacks that message
// and the consumer keeps going; the loop only ends when the channel or
// connection closes.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	name := getName(prefix, topic)
	if err := declareTopic(ch, name); err != nil {
		return err
	}
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	if err := ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.Consume(
		q.Name,
		"",    // consumer
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	go consumeLoop(name, deliveries, handler)
	return nil
}

func consumeLoop(name string, deliveries <-chan amqp.Delivery, handler func(amqp.Delivery) error) {
	for d := range deliveries {
		if err := handler(d); err != nil {
			// No requeue, the queue is exclusive to this consumer and a bad
			// message would come straight back.
			log.Printf("Dropping %s message: %v", name, err)
			d.Nack(false, false)
			continue
		}
		d.Ack(false)
	}
	log.Printf("Consumer for %s stopped", name)
}

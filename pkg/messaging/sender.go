package messaging

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func declareTopic(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	)
}

// TopicSender publishes JSON events on one prefixed topic exchange. Each
// publish opens a short-lived channel so a failed publish never poisons the
// shared connection.
type TopicSender struct {
	name       string
	connection *amqp.Connection
}

// NewTopicSender dials the broker and declares the exchange for the topic.
// Declaration is idempotent, senders and listeners can start in any order.
func NewTopicSender(url, prefix string, topic ChangeTopic) (*TopicSender, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return nil, err
	}
	name := getName(prefix, topic)
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := declareTopic(ch, name); err != nil {
		conn.Close()
		return nil, err
	}
	return &TopicSender{name: name, connection: conn}, nil
}

func (s *TopicSender) Close() error {
	return s.connection.Close()
}

func (s *TopicSender) Send(data any) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := s.connection.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.Publish(
		s.name,
		s.name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}

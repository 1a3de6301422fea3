package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/callmeprinceyadav/Levich/internal/auction"
)

const (
	// Exchange is the topic exchange all auction events are published to.
	Exchange = "auction.events"

	routingKeyPrefix = "auction.bid."
)

// RabbitMQPublisher implements auction.EventSink on top of a RabbitMQ topic
// exchange, so external consumers (archival, analytics) can subscribe to
// accepted bids without touching the engine.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisher creates a new RabbitMQ publisher
func NewRabbitMQPublisher(conn *amqp.Connection) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Ensure the exchange exists
	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the channel
func (p *RabbitMQPublisher) Close() error {
	return p.channel.Close()
}

// Deliver publishes the event as JSON with routing key
// "auction.bid.<event type>".
func (p *RabbitMQPublisher) Deliver(ctx context.Context, event auction.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.channel.PublishWithContext(ctx,
		Exchange,                             // exchange
		routingKeyPrefix+event.Type.String(), // routing key
		false,                                // mandatory
		false,                                // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

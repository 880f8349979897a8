package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// OutboundMessage is what a delivery worker consumes from the exchange.
type OutboundMessage struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPGateway hands messages to RabbitMQ instead of delivering them itself.
type AMQPGateway struct {
	Conn       *amqp.Connection
	Ch         Publisher
	Exchange   string
	RoutingKey string
}

func DialAMQP(url, exchange, routingKey string) (*AMQPGateway, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPGateway{Conn: conn, Ch: ch, Exchange: exchange, RoutingKey: routingKey}, nil
}

func (g *AMQPGateway) Send(ctx context.Context, toPhone, text string) (SendResult, error) {
	msg := OutboundMessage{
		ID:        uuid.NewString(),
		To:        toPhone,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return SendResult{}, err
	}

	err = g.Ch.PublishWithContext(ctx, g.Exchange, g.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Body:         body,
	})
	if err != nil {
		return SendResult{Success: false, Message: err.Error()}, fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}
	return SendResult{Success: true, Message: "queued " + msg.ID}, nil
}

func (g *AMQPGateway) Close() error {
	if g.Conn == nil {
		return nil
	}
	return g.Conn.Close()
}

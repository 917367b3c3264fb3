// internal/amqp/client.go
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finledger/internal/domain"
)

// publishTimeout bounds a single publish.
const publishTimeout = 5 * time.Second

// Client publishes domain events to a durable topic exchange.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	routingKey   string
}

// NewClient dials url and declares the exchange.
func NewClient(url, exchangeName, routingKey string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}

// PublishTransactionsCreated publishes one event for a committed create request.
func (c *Client) PublishTransactionsCreated(ctx context.Context, txns []domain.Transaction, skipped []string) error {
	msg := NewTransactionsCreatedMessage(txns, skipped)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.EventID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published transactions created event",
		"event_id", msg.EventID,
		"count", len(msg.Transactions),
		"skipped", len(msg.SkippedReferences),
		"exchange", c.exchangeName)

	return nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Package amqp publishes and consumes the record export messages that
// decouple the web process from the CSV export worker.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
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
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishRecordSync publishes an export request for one record.
func (c *Client) PublishRecordSync(ctx context.Context, id, version int64) error {
	msg := NewRecordSyncMessage(id, version)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, TypeRecordSync, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published record sync message",
		"id", id,
		"version", version,
		"queue", c.queueName)
	return nil
}

// PublishRecordDelete publishes a deletion notice for one record.
func (c *Client) PublishRecordDelete(ctx context.Context, id int64) error {
	msg := NewRecordDeleteMessage(id)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, TypeRecordDelete, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published record delete message", "id", id, "queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, msgType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Type:         msgType,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// SyncHandler processes one export request.
type SyncHandler func(context.Context, *RecordSyncMessage) error

// DeleteHandler processes one deletion notice.
type DeleteHandler func(context.Context, *RecordDeleteMessage) error

// Consume reads messages until the context is canceled, dispatching on
// the delivery type. Handler failures nack with requeue; malformed
// payloads are dropped.
func (c *Client) Consume(ctx context.Context, onSync SyncHandler, onDelete DeleteHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming record messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			settle(ctx, delivery, c.dispatch(ctx, delivery, onSync, onDelete))
		}
	}
}

// errMalformedMessage marks deliveries that can never be processed and
// must be dropped instead of requeued.
var errMalformedMessage = errors.New("malformed message")

// dispatch decodes and handles one delivery. It never settles the
// delivery itself; settle does that exactly once per tag.
func (c *Client) dispatch(ctx context.Context, delivery amqp091.Delivery, onSync SyncHandler, onDelete DeleteHandler) error {
	switch delivery.Type {
	case TypeRecordSync:
		msg, err := RecordSyncMessageFromJSON(delivery.Body)
		if err != nil {
			return fmt.Errorf("%w: decode sync: %v", errMalformedMessage, err)
		}
		return onSync(ctx, msg)
	case TypeRecordDelete:
		msg, err := RecordDeleteMessageFromJSON(delivery.Body)
		if err != nil {
			return fmt.Errorf("%w: decode delete: %v", errMalformedMessage, err)
		}
		return onDelete(ctx, msg)
	default:
		return fmt.Errorf("%w: unknown type %q", errMalformedMessage, delivery.Type)
	}
}

// settle acknowledges or rejects one delivery based on the dispatch
// outcome: success acks, malformed payloads are dropped, handler
// failures requeue.
func settle(ctx context.Context, delivery amqp091.Delivery, err error) {
	switch {
	case err == nil:
		delivery.Ack(false)
	case errors.Is(err, errMalformedMessage):
		slog.WarnContext(ctx, "Dropping undeliverable message",
			"error", err,
			"type", delivery.Type)
		delivery.Nack(false, false)
	default:
		slog.ErrorContext(ctx, "Failed to handle message, requeuing",
			"error", err,
			"type", delivery.Type)
		delivery.Nack(false, true)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// exponentialBackoff returns the wait before retry number attempt,
// doubling from one second and capped at thirty.
func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Second << uint(attempt)
	if backoff > 30*time.Second || backoff <= 0 {
		return 30 * time.Second
	}
	return backoff
}

// isConnectionError reports whether err looks like a broken broker
// connection worth redialing for.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"connection", "channel closed", "EOF", "broken pipe"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ConsumeWithRetry wraps Consume with redial-and-retry on connection
// failures. It gives up when the context ends or on non-connection
// errors.
func ConsumeWithRetry(ctx context.Context, url, exchange, queue string, onSync SyncHandler, onDelete DeleteHandler) error {
	for attempt := 0; ; attempt++ {
		client, err := NewClient(url, exchange, queue)
		if err == nil {
			attempt = 0
			err = client.Consume(ctx, onSync, onDelete)
			client.Close()
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP connection lost, retrying",
			"error", err,
			"wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"foodorder/internal/models"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue is used when Config.Queue is empty.
const DefaultQueue = "order_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	mu      sync.Mutex // amqp.Channel is not safe for concurrent publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the order
// events queue.
func NewClient(cfg Config) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logrus.WithField("queue", queue).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderEvent publishes event as a persistent JSON message on the
// order events queue.
func (c *Client) PublishOrderEvent(event models.OrderEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		"",      // exchange: default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         event.Type,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"type":     event.Type,
		"order_id": event.OrderID,
	}).Debug("order event published")
	return nil
}

// DecodeOrderEvent parses a delivery produced by PublishOrderEvent.
func DecodeOrderEvent(msg amqp.Delivery) (models.OrderEvent, error) {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return models.OrderEvent{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	return event, nil
}

// ConsumeOrderEvents starts a goroutine that hands every order event to
// handler. Undecodable events and events the handler fails on are rejected
// without requeue.
func (c *Client) ConsumeOrderEvents(handler func(models.OrderEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logrus.WithField("queue", c.queue).Info("waiting for order events")

	go func() {
		for msg := range msgs {
			log := logrus.WithField("delivery_tag", msg.DeliveryTag)

			event, err := DecodeOrderEvent(msg)
			if err == nil {
				err = handler(event)
			}
			if err != nil {
				log.WithError(err).Warn("order event rejected")
				if nackErr := msg.Nack(false, false); nackErr != nil {
					log.WithError(nackErr).Error("failed to nack order event")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.WithError(ackErr).Error("failed to ack order event")
			}
		}
		logrus.WithField("queue", c.queue).Info("order event consumer stopped")
	}()

	return nil
}

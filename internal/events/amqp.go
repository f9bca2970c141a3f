package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/logger"
)

var ErrPublisherClosed = errors.New("publisher is closed")

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpPublisher struct {
	// amqp channels are not safe for concurrent publishing
	mu     sync.Mutex
	ch     channel
	conn   *amqp.Connection
	queue  string
	closed bool
	logger *logger.Logger
}

// NewAMQPPublisher dials the broker, declares a durable queue and returns a
// [Publisher] that sends persistent JSON messages to it.
func NewAMQPPublisher(cfg config.Broker, log *logger.Logger) (Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		log.Err(err).Str("func", "NewAMQPPublisher").Msg("rabbitmq dial failed")
		return nil, fmt.Errorf("rabbitmq dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel open failed: %w", err)
	}

	if _, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare failed: %w", err)
	}
	log.Info().Str("func", "NewAMQPPublisher").Str("queue", cfg.Queue).Msg("connected to rabbitmq successfully")

	return newPublisher(ch, conn, cfg.Queue, log), nil
}

func newPublisher(ch channel, conn *amqp.Connection, queue string, log *logger.Logger) *amqpPublisher {
	return &amqpPublisher{
		ch:     ch,
		conn:   conn,
		queue:  queue,
		logger: log,
	}
}

func (p *amqpPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	// default exchange, routing key = queue name
	if err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish failed: %w", err)
	}

	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// New builds the event publisher described by cfg. Without a broker URL
// events are dropped.
func New(cfg config.Broker, log *logger.Logger) (Publisher, error) {
	if cfg.URL == "" {
		log.Info().Str("func", "events.New").Msg("account events are disabled")
		return NewNopPublisher(), nil
	}
	return NewAMQPPublisher(cfg, log)
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/unikiala/unikiala-api/internal/logger/sl"
)

// Publisher delivers messages to the broker. Callers treat delivery as best
// effort and only log failures.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// AMQP publishes persistent JSON messages to a durable queue named after the
// message, through the default exchange. It dials per publish.
type AMQP struct {
	url string
	log *slog.Logger
}

func NewAMQP(url string, log *slog.Logger) *AMQP {
	return &AMQP{url: url, log: log}
}

func (p *AMQP) Publish(ctx context.Context, msg Message) error {
	const op = "queue.AMQP.Publish"
	log := p.log.With(slog.String("op", op), slog.String("queue", msg.QueueName()))

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Warn("dial failed", sl.Err(err))
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("channel open failed", sl.Err(err))
		return fmt.Errorf("%s: channel: %w", op, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		msg.QueueName(), // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		log.Warn("queue declare failed", sl.Err(err))
		return fmt.Errorf("%s: declare: %w", op, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		msg.QueueName(), // routing key = queue name
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		log.Warn("publish failed", sl.Err(err))
		return fmt.Errorf("%s: publish: %w", op, err)
	}
	log.Debug("message published")
	return nil
}

// Nop drops every message. Used when no broker URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Message) error { return nil }

// New returns an AMQP publisher, or Nop when url is empty.
func New(url string, log *slog.Logger) Publisher {
	if url == "" {
		return Nop{}
	}
	return NewAMQP(url, log)
}

// Recorder keeps published messages in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (r *Recorder) Publish(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

// Messages returns a copy of what was published.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

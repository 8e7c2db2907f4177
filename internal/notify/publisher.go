package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers budget alerts to interested consumers.
type Publisher interface {
	PublishBudgetAlert(ctx context.Context, alert model.BudgetAlert) error
	Close() error
}

// NopPublisher drops every alert. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishBudgetAlert(ctx context.Context, alert model.BudgetAlert) error {
	logger.FromContext(ctx).Debug().
		Str("user_id", alert.UserID.String()).
		Str("month", alert.Month.String()).
		Str("state", string(alert.State)).
		Msg("budget alert dropped, no broker configured")
	return nil
}

func (NopPublisher) Close() error { return nil }

// amqpChannel is the subset of *amqp.Channel used for publishing.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes alerts as persistent JSON messages on a topic exchange.
type AMQPPublisher struct {
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
	timeout    time.Duration
}

// NewAMQPPublisher dials the broker and declares the alert exchange.
func NewAMQPPublisher(url, exchange, routingKey string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newAMQPPublisher(channel, exchange, routingKey)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(channel amqpChannel, exchange, routingKey string) (*AMQPPublisher, error) {
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		timeout:    5 * time.Second,
	}, nil
}

// PublishBudgetAlert serializes alert and publishes it under the configured routing key.
func (p *AMQPPublisher) PublishBudgetAlert(ctx context.Context, alert model.BudgetAlert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal budget alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    alert.Timestamp,
			Type:         string(alert.State),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish budget alert: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("user_id", alert.UserID.String()).
		Str("month", alert.Month.String()).
		Str("state", string(alert.State)).
		Str("exchange", p.exchange).
		Msg("published budget alert")
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

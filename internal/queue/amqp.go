package queue

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// AMQPQueue maps each topic onto a durable RabbitMQ queue.
type AMQPQueue struct {
	conn *amqp.Connection
	log  zerolog.Logger

	mu       sync.Mutex
	pub      *amqp.Channel
	declared map[string]bool
}

func DialAMQP(url string, log zerolog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{
		conn:     conn,
		pub:      ch,
		declared: map[string]bool{},
		log:      log.With().Str("component", "amqp").Logger(),
	}, nil
}

func declare(ch *amqp.Channel, topic string) error {
	_, err := ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	return err
}

func (q *AMQPQueue) Publish(topic string, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if err := declare(q.pub, topic); err != nil {
			return fmt.Errorf("declare queue %s: %w", topic, err)
		}
		q.declared[topic] = true
	}

	return q.pub.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
}

// Subscribe consumes topic on its own channel, one unacked message at a time.
func (q *AMQPQueue) Subscribe(topic string, handler Handler) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, topic); err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			deliver(d, handler, q.log)
		}
		q.log.Info().Str("topic", topic).Msg("consumer channel closed")
	}()
	return nil
}

// deliver acks on success. Failures are not requeued: an outreach job that
// errored may already have sent some emails.
func deliver(d amqp.Delivery, handler Handler, log zerolog.Logger) {
	if err := handler(d.Body); err != nil {
		log.Error().Err(err).Str("queue", d.RoutingKey).Msg("message handling failed, dropping")
		if nerr := d.Nack(false, false); nerr != nil {
			log.Error().Err(nerr).Msg("nack failed")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Msg("ack failed")
	}
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pub != nil {
		_ = q.pub.Close()
	}
	return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)

package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler consumes one message body. A non-nil error marks the delivery failed.
type Handler func(payload []byte) error

// Queue interface
type Queue interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler Handler) error
}

// InMemoryQueue delivers in-process with retry on handler errors
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	MaxRetries int
	Backoff    time.Duration
	log        zerolog.Logger
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log zerolog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		log:        log.With().Str("component", "queue").Logger(),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    []byte
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload []byte) error {
	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{
			Topic:      topic,
			Payload:    payload,
			MaxRetries: q.MaxRetries,
		}
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler Handler, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			q.log.Debug().Str("topic", job.Topic).Msg("job processed")
			return // ACK
		}

		job.RetryCount++
		q.log.Warn().Err(err).Str("topic", job.Topic).
			Int("attempt", job.RetryCount).Int("max_retries", job.MaxRetries).
			Msg("job failed")

		if job.RetryCount > job.MaxRetries {
			q.log.Error().Str("topic", job.Topic).Int("attempts", job.RetryCount).Msg("job permanently failed")
			return // No requeue
		}

		// Linear backoff before retry
		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartSubscriber registers handler on topic and logs the outcome.
func StartSubscriber(q Queue, topic string, handler Handler, log zerolog.Logger) error {
	if err := q.Subscribe(topic, handler); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to start subscriber")
		return err
	}
	log.Info().Str("topic", topic).Msg("subscriber started")
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)

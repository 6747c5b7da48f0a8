package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/segmentio/kafka-go"
)

var (
	ErrPublisherClosed = errors.New("publisher closed")
	ErrBufferFull      = errors.New("event buffer full")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues envelopes in memory and writes them from a single
// background goroutine, so request handlers never wait on the broker.
type KafkaPublisher struct {
	w        messageWriter
	producer string
	logger   logging.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	inbox   chan kafka.Message
	done    chan struct{}
}

// NewKafkaPublisher writes to brokers; the topic is chosen per event.
func NewKafkaPublisher(brokers []string, producer string, buf int, logger logging.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return newKafkaPublisher(w, producer, buf, logger)
}

func newKafkaPublisher(w messageWriter, producer string, buf int, logger logging.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w:        w,
		producer: producer,
		logger:   logger,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
	}
}

// Start launches the delivery loop. It drains the queue and closes the
// writer once Close is called.
func (p *KafkaPublisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.logger.Error(ctx, "event delivery failed", "topic", m.Topic, "error", err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn(context.Background(), "kafka writer close failed", "error", err)
		}
	}()
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	env, err := NewEnvelope(ev.Type, p.producer, ev.Key, ev.Payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg := kafka.Message{
		Topic: ev.Topic,
		Key:   []byte(ev.Key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	select {
	case p.inbox <- msg:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.inbox)
	started := p.started
	p.mu.Unlock()

	if started {
		<-p.done
	}
}

package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Leganyst/booking-core/internal/config"
)

// Publisher доставляет доменные события после коммита породившей их транзакции.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// New собирает издателя по cfg.Kind.
func New(cfg config.BrokerConfig, log *slog.Logger) (Publisher, error) {
	switch cfg.Kind {
	case config.BrokerNone, "":
		return Noop{}, nil
	case config.BrokerAMQP:
		return NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	case config.BrokerKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unsupported broker kind %q", cfg.Kind)
	}
}

// Noop выбрасывает все события.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Memory хранит опубликованные события в памяти.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events возвращает копию всего опубликованного.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Topics — топики опубликованных событий по порядку.

func (m *Memory) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Topic
	}
	return out
}

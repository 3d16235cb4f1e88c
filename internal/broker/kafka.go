package broker

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher пишет события в один топик с ключом id брони: все изменения
// одной брони попадают в одну партицию и идут по порядку.

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	return p.writer.WriteMessages(ctx, message(ev))
}

func message(ev Event) kafka.Message {
	body, _ := ev.Encode()
	return kafka.Message{
		Key:   []byte(ev.ResourceID),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "topic", Value: []byte(ev.Topic)},
			{Key: "entity", Value: []byte(ev.Entity)},
		},
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

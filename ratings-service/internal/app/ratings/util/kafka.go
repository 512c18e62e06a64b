package util

import (
	"context"
	"fmt"
	"time"

	"tablelog/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer обертка над Kafka writer для отправки событий
// REVIEW_* и RESTAURANT_* в топик review_events
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает новый Kafka producer.
// brokers - список брокеров в формате ["host:port"].
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// События отзывов редкие, маленький батч с коротким таймаутом
		BatchSize:    10,
		BatchTimeout: time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage отправляет сообщение в Kafka.
// key используется для партиционирования (ID ресторана - события одного
// ресторана сохраняют порядок).
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	timer := metrics.NewKafkaProduceTimer("ratings-service", p.topic)

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	timer.Success()
	return nil
}

// Close закрывает Kafka writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

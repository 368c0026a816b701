package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-events/internal/config"
	"ms-events/internal/logger"
	"ms-events/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topics config.TopicConfig
	Logger *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Topics: cfg.Topics, Logger: log}
}

// Publish writes one message to topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

// PublishEventCreated streams the newly stored event to Kafka
func (p *Producer) PublishEventCreated(ctx context.Context, event models.Event) error {
	dto, err := models.NewEventChangeDto(models.EventChangeCreated, event.ID, &event)
	if err != nil {
		return err
	}
	return p.publishChange(ctx, p.Topics.EventCreated, dto)
}

// PublishEventDeleted streams the id of a removed event to Kafka
func (p *Producer) PublishEventDeleted(ctx context.Context, eventID int64) error {
	dto, err := models.NewEventChangeDto(models.EventChangeDeleted, eventID, nil)
	if err != nil {
		return err
	}
	return p.publishChange(ctx, p.Topics.EventDeleted, dto)
}

func (p *Producer) publishChange(ctx context.Context, topic string, dto models.EventChangeDto) error {
	value, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal %s change: %w", dto.Type, err)
	}
	if err := p.Publish(ctx, topic, dto.Key(), value); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISH", topic, fmt.Sprintf("%s event %d", dto.Type, dto.EventID))
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

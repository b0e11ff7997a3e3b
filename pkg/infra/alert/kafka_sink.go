package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/flagwise/flagwise/pkg/domain/alert"
)

// kafkaSink publishes alert events to a kafka topic for downstream
// consumers (notification fan-out, SIEM ingestion).
type kafkaSink struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaSink(bootstrapServers, topic string) (Sink, error) {
	if bootstrapServers == "" {
		return nil, fmt.Errorf("kafka bootstrap servers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": bootstrapServers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &kafkaSink{
		producer: producer,
		topic:    topic,
	}, nil
}

func (s *kafkaSink) Name() string {
	return "kafka"
}

func (s *kafkaSink) Deliver(ctx context.Context, evt *alert.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(evt.ChatbotID.String()),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected kafka event type %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("kafka delivery cancelled: %w", ctx.Err())
	}
}

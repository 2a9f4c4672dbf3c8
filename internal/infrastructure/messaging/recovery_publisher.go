// Package messaging publishes observability events produced by the
// self-healing monitor, grounded on Dxlxz-Nexus-Lite's segmentio/kafka-go
// producer (internal/infrastructure in that repo has no direct analogue; the
// writer configuration mirrors producer/main.go's kafka.Writer setup).
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// RecoveryEvent is emitted whenever the self-healing monitor observes a
// target transition from unhealthy to healthy.
type RecoveryEvent struct {
	ServiceName   string        `json:"serviceName"`
	TenantID      string        `json:"tenantId"`
	RecoveredAt   time.Time     `json:"recoveredAt"`
	TimeToRecover time.Duration `json:"timeToRecoverMs"`
	ActionsTaken  []string      `json:"actionsTaken"`
	DrainedCount  int           `json:"drainedCount"`
}

// RecoveryEventPublisher decouples the monitor usecase from the transport
// used to notify downstream observability consumers.
type RecoveryEventPublisher interface {
	PublishRecovery(ctx context.Context, event RecoveryEvent) error
	Close() error
}

// KafkaRecoveryPublisher publishes recovery events to a Kafka topic with
// async, batched writes tuned for low-latency notification rather than
// throughput.
type KafkaRecoveryPublisher struct {
	writer *kafka.Writer
}

// NewKafkaRecoveryPublisher constructs a publisher against brokers/topic.
func NewKafkaRecoveryPublisher(brokers []string, topic string) *KafkaRecoveryPublisher {
	return &KafkaRecoveryPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			Async:        true,
		},
	}
}

// PublishRecovery marshals event as JSON and writes it keyed by service name
// so consumers can partition by service.
func (p *KafkaRecoveryPublisher) PublishRecovery(ctx context.Context, event RecoveryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ServiceName),
		Value: payload,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaRecoveryPublisher) Close() error {
	return p.writer.Close()
}

// NoopRecoveryPublisher discards every event. Used when no broker is
// configured (local development, unit tests).
type NoopRecoveryPublisher struct{}

func (NoopRecoveryPublisher) PublishRecovery(context.Context, RecoveryEvent) error { return nil }
func (NoopRecoveryPublisher) Close() error                                        { return nil }

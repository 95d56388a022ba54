package notifier

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes transaction notices to a Kafka topic so downstream
// consumers (dashboards, audit tooling) can react without touching the
// primary database.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notice TransactionNotice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{Value: data})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads booking sync events off the topic and hands the decoded
// event to the handler. A message that does not decode is logged and
// skipped so one bad payload cannot stall the consumer group.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingSyncEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeSyncEvent(msg.Value)
		if err != nil {
			log.Printf("skip undecodable sync event (key %s): %v", msg.Key, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeSyncEvent(data []byte) (BookingSyncEvent, error) {
	var event BookingSyncEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BookingSyncEvent{}, err
	}
	return event, nil
}

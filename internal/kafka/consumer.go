package kafka

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

// Handler return nil hanya jika pesan sukses diproses dan offset boleh
// di-commit.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r *kafka.Reader
}

func NewConsumer(brokers []string, group string, topics []string) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     group,
			GroupTopics: topics,
			MinBytes:    1,
			MaxBytes:    10e6,
		}),
	}
}

// Start membaca sampai ctx selesai. Pesan yang gagal diproses di-log dan
// tetap di-commit — notifikasi back office tidak butuh redelivery.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if err := h(ctx, m); err != nil {
			log.Printf("consumer: handle %s/%d@%d: %v", m.Topic, m.Partition, m.Offset, err)
		}
		if err := c.r.CommitMessages(ctx, m); err != nil {
			log.Printf("consumer: commit: %v", err)
		}
	}
}

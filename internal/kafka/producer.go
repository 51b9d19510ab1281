package kafka

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer menulis event lewat inbox channel supaya handler HTTP tidak pernah
// menunggu broker. Publish sifatnya best-effort; error cuma di-log.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					return
				}
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					log.Printf("kafka publish: %v", err)
				}
			}
		}
	}()
}

// Publish aman dipanggil dengan receiver nil (broker tidak dikonfigurasi).
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	if p == nil {
		return
	}
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
	default:
		log.Printf("kafka publish: inbox full, event dropped")
	}
}

func (p *Producer) drain() {
	close(p.inbox)
	for m := range p.inbox {
		_ = p.w.WriteMessages(context.Background(), m)
	}
	_ = p.w.Close()
}

// WaitClosed menunggu goroutine producer selesai flush.
func (p *Producer) WaitClosed() {
	if p == nil {
		return
	}
	<-p.closeCh
}

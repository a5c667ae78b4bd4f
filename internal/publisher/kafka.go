package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/cart"
	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

const DefaultTopic = "storefront-orders"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes OrderPlaced events keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, sessionID string, user *domain.User, r cart.Receipt) error {
	msg, err := buildMessage(NewOrderPlaced(sessionID, user, r))
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order placed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event OrderPlaced) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order placed: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Time:  event.PlacedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_placed")},
		},
	}, nil
}

// LogPublisher only logs orders. It is used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOrderPlaced(_ context.Context, sessionID string, user *domain.User, r cart.Receipt) error {
	event := NewOrderPlaced(sessionID, user, r)
	p.logger.Info("order placed",
		zap.String("order_id", event.OrderID),
		zap.String("session_id", event.SessionID),
		zap.Int("user_id", event.UserID),
		zap.Int("item_count", event.ItemCount),
		zap.String("total_amount", event.TotalAmount),
		zap.String("currency", event.Currency))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

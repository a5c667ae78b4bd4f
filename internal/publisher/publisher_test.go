package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fjod/go_cart/storefront-service/internal/cart"
	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func sampleReceipt() cart.Receipt {
	return cart.Receipt{
		ID: "order-1",
		Lines: []domain.CartLine{
			{ProductID: "1", Name: "Shirt", Price: 499.6, Quantity: 2},
			{ProductID: "ex-1", Name: "Jacket", Price: 4999, Quantity: 1},
		},
		ItemCount: 3,
		Total:     decimal.NewFromInt(5999),
		PlacedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewOrderPlaced(t *testing.T) {
	event := NewOrderPlaced("sess-1", &domain.User{ID: 4}, sampleReceipt())

	assert.Equal(t, "order-1", event.OrderID)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, 4, event.UserID)
	assert.Equal(t, "5999.00", event.TotalAmount)
	assert.Equal(t, "INR", event.Currency)
	require.Len(t, event.Items, 2)
	assert.Equal(t, OrderItem{ProductID: "1", ProductName: "Shirt", Quantity: 2, UnitPrice: "500.00", Subtotal: "1000.00"}, event.Items[0])
	assert.Equal(t, "4999.00", event.Items[1].Subtotal)
}

func TestNewOrderPlaced_Anonymous(t *testing.T) {
	event := NewOrderPlaced("sess-1", nil, sampleReceipt())
	assert.Zero(t, event.UserID)
}

func TestKafkaPublisher_WritesKeyedMessage(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.PublishOrderPlaced(context.Background(), "sess-1", nil, sampleReceipt()))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.Equal(t, "order_placed", string(msg.Headers[0].Value))

	var decoded OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "sess-1", decoded.SessionID)
	assert.Len(t, decoded.Items, 2)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &mockWriter{err: errors.New("leader not available")}}

	err := p.PublishOrderPlaced(context.Background(), "sess-1", nil, sampleReceipt())
	assert.ErrorContains(t, err, "write order placed")
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p := NewKafkaPublisher("", "localhost:9092")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
	require.NoError(t, p.Close())
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.PublishOrderPlaced(context.Background(), "sess-1", nil, sampleReceipt()))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "order-1", logs.All()[0].ContextMap()["order_id"])
	assert.NoError(t, p.Close())
}

// Package publisher announces placed orders to other systems. Delivery is
// best effort; a failed publish never undoes an order.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/decohome/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultTopic         = "storefront-orders"
	EventTypeOrderPlaced = "OrderPlaced"
)

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
	Close() error
}

type orderPlacedEvent struct {
	OrderID  string            `json:"order_id"`
	Items    []orderPlacedItem `json:"items"`
	Subtotal string            `json:"subtotal"`
	Shipping string            `json:"shipping"`
	Total    string            `json:"total"`
	PlacedAt time.Time         `json:"placed_at"`
}

type orderPlacedItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func encodeOrderPlaced(order domain.Order) ([]byte, error) {
	items := make([]orderPlacedItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, orderPlacedItem{
			ProductID:   line.ID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
		})
	}

	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:  order.ID,
		Items:    items,
		Subtotal: order.Subtotal.StringFixed(2),
		Shipping: order.Shipping.StringFixed(2),
		Total:    order.Total.StringFixed(2),
		PlacedAt: order.PlacedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order placed event: %w", err)
	}
	return payload, nil
}

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return NewKafkaPublisherWithWriter(w)
}

func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	payload, err := encodeOrderPlaced(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs the event; used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	p.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Total.StringFixed(2)))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

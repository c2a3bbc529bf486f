package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/vasiliy-maslov/grocery-pos/internal/order"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits order events to a single topic, keyed by order id so
// all events of one order land on the same partition.
type KafkaPublisher struct {
	w        messageWriter
	producer string
	now      func() time.Time
}

func NewKafkaPublisher(brokers []string, topic, producer string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 5 * time.Second,
		},
		producer: producer,
		now:      time.Now,
	}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, placement *order.Placement) error {
	payload := OrderPlacedPayload{
		OrderID:     placement.OrderID,
		CustomerID:  placement.CustomerID,
		TotalAmount: placement.TotalAmount.StringFixed(2),
		OrderDate:   placement.OrderDate,
		Items:       make([]OrderItem, 0, len(placement.Items)),
	}
	for _, it := range placement.Items {
		payload.Items = append(payload.Items, OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		})
	}

	key := strconv.FormatInt(placement.OrderID, 10)
	value, err := p.envelope(EventOrderPlaced, key, payload)
	if err != nil {
		return err
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  p.now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	})
	if err != nil {
		return fmt.Errorf("events: failed to publish %s for order %d: %w", EventOrderPlaced, placement.OrderID, err)
	}

	log.Debug().Int64("order_id", placement.OrderID).Msg("events: order placed event published")
	return nil
}

func (p *KafkaPublisher) envelope(eventType, correlationID string, payload any) ([]byte, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("events: failed to generate event id: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: failed to encode %s payload: %w", eventType, err)
	}

	return json.Marshal(Envelope{
		EventID:       id.String(),
		EventType:     eventType,
		EventVersion:  envelopeVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.producer,
		CorrelationID: correlationID,
		Payload:       raw,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) OrderPlaced(context.Context, *order.Placement) error { return nil }

func (NoopPublisher) Close() error { return nil }

// Package kafka consumes the order-events topic and fans settled orders out
// to customer notifications. Delivery is at-least-once from kafka; the
// redis idempotency store collapses replays so no customer is notified
// twice for one event.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/pkg/idempotency"
	"github.com/sanchitg17/Thrift-Marketplace/pkg/tracing"
)

// Notifier delivers a customer-facing message. The default implementation
// only logs; a mail or SMS sender slots in behind the same interface.
type Notifier interface {
	NotifyStatus(ctx context.Context, merchantOrderRef string, status domain.OrderStatus) error
}

type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) NotifyStatus(ctx context.Context, merchantOrderRef string, status domain.OrderStatus) error {
	n.Log.Info("customer notification", "merchant_order_ref", merchantOrderRef, "status", status)
	return nil
}

type Consumer struct {
	log      *slog.Logger
	reader   *kafka.Reader
	notifier Notifier
	idem     *idempotency.Store
	tracer   trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, notifier Notifier, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:      log,
		reader:   r,
		notifier: notifier,
		idem:     idem,
		tracer:   otel.Tracer("notification-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderEvent")
		c.handle(msgCtx, headerValue(msg.Headers, "event_type"), msg.Value)
		span.End()

		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, eventType string, payload []byte) {
	switch eventType {
	case "OrderStatusChanged":
		var event domain.OrderStatusChanged
		if err := json.Unmarshal(payload, &event); err != nil {
			c.log.Error("unmarshal failed", "event_type", eventType, "err", err)
			return
		}
		if err := c.notifier.NotifyStatus(ctx, event.MerchantOrderRef, event.Status); err != nil {
			c.log.Error("notification failed", "merchant_order_ref", event.MerchantOrderRef, "err", err)
		}
	case "OrderCreated":
		// Creation is not customer-visible; acknowledged silently.
	default:
		c.log.Warn("unknown event type", "event_type", eventType)
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}

// Package notifier hands order status notifications to the notification
// service. Delivery is best effort: callers log failures and carry on.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// Message is the JSON published for each request.
type Message struct {
	UserID   string    `json:"userId"`
	OrderID  string    `json:"orderId"`
	Type     string    `json:"type"`
	Priority string    `json:"priority"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}

func newMessage(r order.NotificationRequest) Message {
	return Message{
		UserID:   r.UserID.String(),
		OrderID:  r.OrderID.String(),
		Type:     r.Type,
		Priority: string(r.Priority),
		Status:   r.Status.String(),
		At:       r.At.UTC(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes requests keyed by order id so the notifications
// of one order stay ordered on a partition.
type KafkaNotifier struct {
	writer messageWriter
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

func (n *KafkaNotifier) Notify(ctx context.Context, request order.NotificationRequest) error {
	data, err := json.Marshal(newMessage(request))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(request.OrderID.String()),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier writes requests to the log. It is used when no broker is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, request order.NotificationRequest) error {
	n.logger.InfoContext(ctx, "order notification",
		"order_id", request.OrderID.String(),
		"user_id", request.UserID.String(),
		"type", request.Type,
		"priority", string(request.Priority),
		"status", request.Status.String(),
	)
	return nil
}

package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

// Sender delivers a confirmation to the customer. The default implementation
// writes to the log; a real mail gateway slots in behind this.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, event OrderConfirmation) error
}

// LogSender satisfies Sender by logging the confirmation.
type LogSender struct {
	logg *logger.Logger
}

// NewLogSender builds the logging sender.
func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

// SendOrderConfirmation logs the confirmation the way an email would read.
func (s *LogSender) SendOrderConfirmation(ctx context.Context, event OrderConfirmation) error {
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   event.OrderID,
		"user_email": event.UserEmail,
		"total":      event.Total.StringFixed(2),
	}), "order confirmation email sent")
	return nil
}

// Consumer pulls order confirmations off the subscription and hands them to
// the sender.
type Consumer struct {
	subscription *pubsub.Subscriber
	sender       Sender
	logg         *logger.Logger
}

// NewConsumer constructs the consumer.
func NewConsumer(subscription *pubsub.Subscriber, sender Sender, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("subscription required")
	}
	if sender == nil {
		return nil, fmt.Errorf("sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{subscription: subscription, sender: sender, logg: logg}, nil
}

// Run blocks receiving messages until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logg.Info(ctx, "notification consumer started")
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.handle(ctx, msg)
	})
}

func (c *Consumer) handle(ctx context.Context, msg *pubsub.Message) {
	logCtx := c.logg.WithField(ctx, "message_id", msg.ID)

	if event := msg.Attributes["event"]; event != "" && event != EventOrderConfirmation {
		c.logg.Warn(c.logg.WithField(logCtx, "event", event), "skipping unexpected event type")
		msg.Ack()
		return
	}

	var event OrderConfirmation
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// Redelivery cannot fix a malformed payload.
		c.logg.Error(logCtx, "decode order confirmation", err)
		msg.Ack()
		return
	}

	if err := c.sender.SendOrderConfirmation(logCtx, event); err != nil {
		c.logg.Error(logCtx, "send order confirmation", err)
		msg.Nack()
		return
	}
	msg.Ack()
}

package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/shopspring/decimal"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

// EventOrderConfirmation is the attribute value tagging confirmation messages.
const EventOrderConfirmation = "order_confirmation"

const publishTimeout = 10 * time.Second

// OrderConfirmation is the payload published after a checkout commits.
type OrderConfirmation struct {
	OrderID   int64           `json:"order_id"`
	UserEmail string          `json:"user_email"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type publisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}

// PubSubPublisher adapts a Pub/Sub topic publisher to the dispatcher.
type PubSubPublisher struct {
	topic *pubsub.Publisher
}

// NewPubSubPublisher wraps the topic publisher. Returns nil for a nil topic
// so callers can pass the result straight to NewDispatcher.
func NewPubSubPublisher(topic *pubsub.Publisher) *PubSubPublisher {
	if topic == nil {
		return nil
	}
	return &PubSubPublisher{topic: topic}
}

// Publish sends one message and waits for the server-assigned ID.
func (p *PubSubPublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error) {
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attributes,
	})
	return result.Get(ctx)
}

// Dispatcher sends order confirmations after checkout commits. Dispatch is
// fire and forget: the checkout response never waits on the broker, and a
// publish failure is only logged. Without a publisher it degrades to logging
// the confirmation, which keeps local development broker-free.
type Dispatcher struct {
	pub  publisher
	logg *logger.Logger
	wg   sync.WaitGroup
}

// NewDispatcher constructs the dispatcher. pub may be nil.
func NewDispatcher(pub *PubSubPublisher, logg *logger.Logger) (*Dispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	d := &Dispatcher{logg: logg}
	if pub != nil {
		d.pub = pub
	}
	return d, nil
}

// DispatchOrderConfirmation queues the confirmation for async delivery and
// returns immediately.
func (d *Dispatcher) DispatchOrderConfirmation(ctx context.Context, event OrderConfirmation) {
	logCtx := d.logg.WithFields(context.WithoutCancel(ctx), map[string]any{
		"order_id":   event.OrderID,
		"user_email": event.UserEmail,
	})

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(logCtx, event)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, event OrderConfirmation) {
	if d.pub == nil {
		d.logg.Info(ctx, "order confirmation (no broker configured)")
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logg.Error(ctx, "marshal order confirmation", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	id, err := d.pub.Publish(publishCtx, payload, map[string]string{
		"event": EventOrderConfirmation,
	})
	if err != nil {
		d.logg.Error(ctx, "publish order confirmation", err)
		return
	}
	d.logg.Info(d.logg.WithField(ctx, "message_id", id), "order confirmation published")
}

// Flush blocks until all queued confirmations have been attempted. Used on
// shutdown and in tests.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}

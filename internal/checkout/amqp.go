package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPConfig describes where checkout events are published.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// Event is the body of a checkout.requested message.
type Event struct {
	Reference  string    `json:"reference"`
	Email      string    `json:"email"`
	ListingIDs []int64   `json:"listing_ids"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	CapturedAt time.Time `json:"captured_at"`
}

func NewEvent(req Request) Event {
	ids := make([]int64, 0, len(req.Snapshot.Items))
	for _, l := range req.Snapshot.Items {
		ids = append(ids, l.ID)
	}
	return Event{
		Reference:  req.Reference,
		Email:      req.Email,
		ListingIDs: ids,
		Amount:     req.Snapshot.Total.Amount,
		Currency:   req.Snapshot.Total.Currency,
		CapturedAt: req.Snapshot.CapturedAt,
	}
}

// AMQPGateway hands checkouts to a payment worker over RabbitMQ. Receipts are
// pending until that worker confirms payment.
type AMQPGateway struct {
	cfg     AMQPConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

func DialAMQP(cfg AMQPConfig, logger *slog.Logger) (*AMQPGateway, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("amqp: url is required")
	}
	if cfg.Exchange == "" || cfg.RoutingKey == "" {
		return nil, fmt.Errorf("amqp: exchange and routing key are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: declare exchange %q: %w", cfg.Exchange, err)
	}

	logger.Debug("checkout exchange ready", "exchange", cfg.Exchange)
	return &AMQPGateway{cfg: cfg, conn: conn, channel: ch, logger: logger}, nil
}

func (g *AMQPGateway) Charge(ctx context.Context, req Request) (Receipt, error) {
	if err := g.publish(ctx, g.cfg.RoutingKey, "checkout.requested", req.Reference, NewEvent(req)); err != nil {
		return Receipt{}, err
	}
	return Receipt{Reference: req.Reference, Status: StatusPending, Amount: req.Snapshot.Total}, nil
}

// Notify publishes payload on the checkout exchange with eventType as both
// the message type and the routing key.
func (g *AMQPGateway) Notify(ctx context.Context, eventType, id string, payload any) error {
	return g.publish(ctx, eventType, eventType, id, payload)
}

func (g *AMQPGateway) publish(ctx context.Context, routingKey, eventType, id string, payload any) error {
	if g.channel == nil || g.conn == nil || g.conn.IsClosed() {
		return fmt.Errorf("amqp: not connected")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("amqp: encode %s: %w", eventType, err)
	}

	err = g.channel.PublishWithContext(ctx, g.cfg.Exchange, routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     id,
			CorrelationId: id,
			Timestamp:     time.Now().UTC(),
			Type:          eventType,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp: publish %s: %w", eventType, err)
	}
	g.logger.Debug("event published", "type", eventType, "id", id)
	return nil
}

func (g *AMQPGateway) Close() error {
	var firstErr error
	if g.channel != nil {
		if err := g.channel.Close(); err != nil {
			firstErr = err
		}
		g.channel = nil
	}
	if g.conn != nil {
		if err := g.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		g.conn = nil
	}
	return firstErr
}

package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/shopease/internal/domain"
	pkgkafka "github.com/utafrali/shopease/pkg/kafka"
	"github.com/utafrali/shopease/pkg/logger"
)

// Kafka topics for storefront events.
const (
	TopicCartUpdated = "shopease.cart.updated"
	TopicCartCleared = "shopease.cart.cleared"
	TopicOrderPlaced = "shopease.order.placed"
)

// Aggregate types.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifies events emitted by the storefront.
const Source = "shopease-storefront"

// DefaultBufferSize is the number of events queued before new ones are dropped.
const DefaultBufferSize = 256

const publishTimeout = 5 * time.Second

// CartEntryData is an entry within cart and order payloads.
type CartEntryData struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CartChangedData is the payload of cart.updated and cart.cleared events.
type CartChangedData struct {
	Username   string          `json:"username,omitempty"`
	Entries    []CartEntryData `json:"entries"`
	TotalItems int             `json:"total_items"`
	TotalPrice string          `json:"total_price"`
}

// OrderPlacedData is the payload of order.placed events.
type OrderPlacedData struct {
	OrderID    string          `json:"order_id"`
	Username   string          `json:"username,omitempty"`
	Entries    []CartEntryData `json:"entries"`
	TotalItems int             `json:"total_items"`
	TotalPrice string          `json:"total_price"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// Producer writes an event to a topic.
type Producer interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

type message struct {
	ctx   context.Context
	topic string
	event *pkgkafka.Event
}

// Publisher forwards store notifications to Kafka from a background worker
// so a slow or unreachable broker never blocks a store mutation. When the
// queue is full the event is dropped and logged.
type Publisher struct {
	producer Producer
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan message
	wg     sync.WaitGroup
}

// NewPublisher starts a publisher with a queue of bufferSize events.
func NewPublisher(producer Producer, logger *slog.Logger, bufferSize int) *Publisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	p := &Publisher{
		producer: producer,
		logger:   logger,
		queue:    make(chan message, bufferSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// CartChanged publishes a cart change. It has the signature of a cart
// listener.
func (p *Publisher) CartChanged(ctx context.Context, change domain.CartChange) {
	topic := TopicCartUpdated
	if change.Kind == domain.CartCleared {
		topic = TopicCartCleared
	}

	username := logger.UsernameFromContext(ctx)
	data := CartChangedData{
		Username:   username,
		Entries:    entryData(change.Cart.Entries),
		TotalItems: change.Cart.TotalItems(),
		TotalPrice: change.Cart.TotalPrice().StringFixed(2),
	}
	p.enqueue(ctx, topic, AggregateTypeCart, aggregateID(username), data)
}

// OrderPlaced publishes a placed order. It has the signature of an order
// listener.
func (p *Publisher) OrderPlaced(ctx context.Context, order domain.Order) {
	data := OrderPlacedData{
		OrderID:    order.ID.String(),
		Username:   logger.UsernameFromContext(ctx),
		Entries:    entryData(order.Entries),
		TotalItems: order.TotalItems,
		TotalPrice: order.TotalPrice.StringFixed(2),
		PlacedAt:   order.PlacedAt,
	}
	p.enqueue(ctx, TopicOrderPlaced, AggregateTypeOrder, order.ID.String(), data)
}

// Close stops accepting events and waits for queued ones to be published.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Publisher) enqueue(ctx context.Context, topic, aggregateType, aggregateID string, data any) {
	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event", slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.WarnContext(ctx, "publisher closed, dropping event", slog.String("topic", topic))
		return
	}

	select {
	case p.queue <- message{ctx: context.WithoutCancel(ctx), topic: topic, event: ev}:
	default:
		p.logger.WarnContext(ctx, "event queue full, dropping event",
			slog.String("topic", topic),
			slog.String("event_id", ev.EventID),
		)
	}
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(msg.ctx, publishTimeout)
		if err := p.producer.Publish(ctx, msg.topic, msg.event); err != nil {
			p.logger.ErrorContext(ctx, "failed to publish event",
				slog.String("topic", msg.topic),
				slog.String("event_id", msg.event.EventID),
				slog.String("error", err.Error()),
			)
		} else {
			p.logger.DebugContext(ctx, "event published",
				slog.String("topic", msg.topic),
				slog.String("event_id", msg.event.EventID),
			)
		}
		cancel()
	}
}

func entryData(entries []domain.CartEntry) []CartEntryData {
	out := make([]CartEntryData, 0, len(entries))
	for _, e := range entries {
		out = append(out, CartEntryData{
			ProductID: e.Product.ID,
			Title:     e.Product.Title,
			Price:     e.Product.Price,
			Quantity:  e.Quantity,
		})
	}
	return out
}

func aggregateID(username string) string {
	if username == "" {
		return "anonymous"
	}
	return username
}

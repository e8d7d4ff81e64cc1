package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	"github.com/corray333/backend-labs/store/internal/dal/uow"
	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/order"
	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/store/internal/service/models/outbox"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// OrderService owns the order pricing and line-item reconciliation workflow.
// Every mutation runs inside one unit of work: header write, price reads,
// line-item upserts, total write-back and the outbox event commit or roll
// back together.
type OrderService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
	audit    auditLogger
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	ProductRepository() iproductrepo.IProductRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// auditLogger publishes best-effort audit records after a successful commit.
type auditLogger interface {
	LogOrderEvent(ctx context.Context, action string, o order.Order) error
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides how units of work are built.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// WithAuditLogger sets the post-commit audit publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditLogger(audit auditLogger) option {
	return func(s *OrderService) {
		s.audit = audit
	}
}

// PlaceOrder creates an order header, reconciles its line items against
// current catalog prices and persists the derived total, all in one
// transaction. The incoming order carries the requested items in OrderItems;
// the returned order carries the persisted state.
func (s *OrderService) PlaceOrder(ctx context.Context, o order.Order) (*order.Order, error) {
	if o.UserID == 0 {
		return nil, apperr.Validation("missing required argument: user_id")
	}
	if o.ShippingAddress == "" {
		return nil, apperr.Validation("missing required argument: shipping_address")
	}
	if err := validateItems(o.OrderItems); err != nil {
		return nil, err
	}

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.TrackingNumber = order.NewTrackingNumber()
	o.TotalPriceCents = 0
	if o.TotalPriceCurrency == "" {
		o.TotalPriceCurrency = currency.CurrencyUSD
	}

	requested := o.OrderItems

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal("could not create order", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	header, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return nil, apperr.Internal("could not create order", err)
	}

	total, items, err := s.reconcile(ctx, work, header.ID, requested)
	if err != nil {
		return nil, err
	}

	if err := work.OrderRepository().UpdateTotal(ctx, header.ID, total, header.TotalPriceCurrency); err != nil {
		return nil, apperr.Internal("could not update order total", err)
	}

	header.TotalPriceCents = total
	header.OrderItems = items

	if err := enqueueOrderEvent(ctx, work, outbox.RoutingKeyOrderCreated, *header); err != nil {
		return nil, apperr.Internal("could not enqueue order event", err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal("could not create order", err)
	}

	s.logAudit(ctx, "created", *header)

	return header, nil
}

// UpdateOrder patches the header fields present in patch and replays the
// full reconciliation over items. Replayed items accumulate onto existing
// line-item quantities; the total is recomputed from scratch, never patched
// incrementally.
func (s *OrderService) UpdateOrder(
	ctx context.Context,
	id int64,
	patch order.Patch,
	items []orderitem.OrderItem,
) (*order.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal("could not update order", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	header, err := work.OrderRepository().Update(ctx, id, patch)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not update order", err)
	}

	// The stored tracking number survives updates; it is only regenerated
	// when the row has none.
	if header.TrackingNumber == "" {
		tn := order.NewTrackingNumber()
		header, err = work.OrderRepository().Update(ctx, id, order.Patch{TrackingNumber: &tn})
		if err != nil {
			return nil, apperr.Internal("could not update order", err)
		}
	}

	total, reconciled, err := s.reconcile(ctx, work, id, items)
	if err != nil {
		return nil, err
	}

	if err := work.OrderRepository().UpdateTotal(ctx, id, total, header.TotalPriceCurrency); err != nil {
		return nil, apperr.Internal("could not update order total", err)
	}

	header.TotalPriceCents = total
	header.OrderItems = reconciled

	if err := enqueueOrderEvent(ctx, work, outbox.RoutingKeyOrderUpdated, *header); err != nil {
		return nil, apperr.Internal("could not enqueue order event", err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal("could not update order", err)
	}

	s.logAudit(ctx, "updated", *header)

	return header, nil
}

// DeleteOrder removes an order and its line items in one transaction and
// returns the removed header.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) (*order.Order, error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal("could not delete order", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	if err := work.OrderItemRepository().DeleteByOrderID(ctx, id); err != nil {
		return nil, apperr.Internal("could not delete order items", err)
	}

	header, err := work.OrderRepository().Delete(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not delete order", err)
	}

	if err := enqueueOrderEvent(ctx, work, outbox.RoutingKeyOrderDeleted, *header); err != nil {
		return nil, apperr.Internal("could not enqueue order event", err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal("could not delete order", err)
	}

	s.logAudit(ctx, "deleted", *header)

	return header, nil
}

// GetOrders retrieves order headers with their line items.
func (s *OrderService) GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, apperr.Internal("could not fetch orders", err)
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemFilter := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemFilter.OrderIds = append(itemFilter.OrderIds, o.ID)
	}

	items, err := work.OrderItemRepository().Query(ctx, itemFilter)
	if err != nil {
		return nil, apperr.Internal("could not fetch order items", err)
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// GetOrder retrieves a single order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	orders, err := s.GetOrders(ctx, order.QueryOrdersModel{Ids: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("order", id)
	}

	return &orders[0], nil
}

// reconcile walks the requested items in input order: reads each product's
// current price inside the transaction and upserts the line item with
// accumulate-on-conflict semantics. An unknown product aborts the whole
// operation. The total is then re-derived from the persisted line items, so
// replayed items that accumulated onto existing rows are priced at their
// accumulated quantity. Returns the recomputed total and the persisted line
// items.
func (s *OrderService) reconcile(
	ctx context.Context,
	work unitOfWork,
	orderID int64,
	items []orderitem.OrderItem,
) (int64, []orderitem.OrderItem, error) {
	prices := make(map[int64]int64)

	lookupPrice := func(productID int64) (int64, error) {
		if priceCents, ok := prices[productID]; ok {
			return priceCents, nil
		}

		priceCents, err := work.ProductRepository().GetPriceCents(ctx, productID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return 0, err
			}

			return 0, apperr.Internal("could not look up product price", err)
		}

		prices[productID] = priceCents

		return priceCents, nil
	}

	for _, item := range items {
		if _, err := lookupPrice(item.ProductID); err != nil {
			return 0, nil, err
		}

		item.OrderID = orderID
		if err := work.OrderItemRepository().Upsert(ctx, item); err != nil {
			return 0, nil, apperr.Internal("could not upsert order item", err)
		}
	}

	persisted, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{orderID},
	})
	if err != nil {
		return 0, nil, apperr.Internal("could not fetch order items", err)
	}

	var total int64
	for _, item := range persisted {
		priceCents, err := lookupPrice(item.ProductID)
		if err != nil {
			return 0, nil, err
		}

		total += priceCents * int64(item.Quantity)
	}

	return total, persisted, nil
}

func validateItems(items []orderitem.OrderItem) error {
	for _, item := range items {
		if item.ProductID == 0 {
			return apperr.Validation("missing required argument: product_id")
		}
		if item.Quantity <= 0 {
			return apperr.Validation(fmt.Sprintf("quantity must be positive for product %d", item.ProductID))
		}
	}

	return nil
}

// orderEvent is the payload written to the outbox.
type orderEvent struct {
	EventID    string      `json:"event_id"`
	Action     string      `json:"action"`
	Order      order.Order `json:"order"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func enqueueOrderEvent(ctx context.Context, work unitOfWork, routingKey string, o order.Order) error {
	payload, err := json.Marshal(orderEvent{
		EventID:    uuid.NewString(),
		Action:     routingKey,
		Order:      o,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return err
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	now := time.Now()

	return work.OutboxRepository().Insert(ctx, outbox.Message{
		QueueName:   viper.GetString("rabbitmq.orders.queue"),
		RoutingKey:  routingKey,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}

func (s *OrderService) logAudit(ctx context.Context, action string, o order.Order) {
	if s.audit == nil {
		return
	}

	if err := s.audit.LogOrderEvent(ctx, action, o); err != nil {
		slog.Error("Failed to publish order audit event", "order_id", o.ID, "action", action, "error", err)
	}
}

package uow

import (
	"context"

	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	orderrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/product/postgres"
	"github.com/jackc/pgx/v5"
)

// unitOfWork scopes the repositories to one transaction. Before Begin the
// repositories run against the pool; after Begin they share a single pgx
// transaction (read committed, the store default) so price reads and order
// writes see one consistent snapshot per statement and commit or roll back
// together.
type unitOfWork struct {
	pool          *postgres.Client
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	productRepo   iproductrepo.IProductRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:          client,
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		productRepo:   productrepo.NewPostgresProductRepository(client.Pool()),
		outboxRepo:    outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin starts a transaction and rebinds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.productRepo = productrepo.NewPostgresProductRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Commit(ctx)
	u.tx = nil

	return err
}

// Rollback is a no-op after a successful Commit, so it is safe to defer.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}

package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	"github.com/corray333/backend-labs/store/internal/service/models/cartitem"
)

// CartItemDal represents the cart data access layer model.
type CartItemDal struct {
	UserId    int64     `db:"user_id"`
	ProductId int64     `db:"product_id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToModel converts CartItemDal to the service layer CartItem model.
func (c *CartItemDal) ToModel() *cartitem.CartItem {
	return &cartitem.CartItem{
		UserID:    c.UserId,
		ProductID: c.ProductId,
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// PostgresCartRepository is a Postgres repository for cart items.
type PostgresCartRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCartRepository creates a new Postgres cart repository bound to
// a pool or transaction.
func NewPostgresCartRepository(conn postgres.GenericConn) *PostgresCartRepository {
	return &PostgresCartRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const cartColumns = "user_id, product_id, quantity, created_at, updated_at"

// Upsert inserts a cart row. On (user_id, product_id) conflict the stored
// quantity is incremented by the new quantity. Returns the resulting row.
func (r *PostgresCartRepository) Upsert(ctx context.Context, item cartitem.CartItem) (*cartitem.CartItem, error) {
	now := time.Now()

	query, args, err := r.sb.Insert("cart").
		Columns(cartColumns).
		Values(item.UserID, item.ProductID, item.Quantity, now, now).
		Suffix(`ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
			RETURNING ` + cartColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert query: %w", err)
	}

	var dal CartItemDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.UserId,
		&dal.ProductId,
		&dal.Quantity,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves cart items based on filter criteria.
func (r *PostgresCartRepository) Query(ctx context.Context, filter *cartitem.QueryCartItemsModel) ([]cartitem.CartItem, error) {
	builder := r.sb.
		Select(cartColumns).
		From("cart").
		OrderBy("user_id", "product_id")

	if len(filter.UserIds) > 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserIds})
	}
	if len(filter.ProductIds) > 0 {
		builder = builder.Where(sq.Eq{"product_id": filter.ProductIds})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var result []cartitem.CartItem
	for rows.Next() {
		var dal CartItemDal
		err := rows.Scan(
			&dal.UserId,
			&dal.ProductId,
			&dal.Quantity,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

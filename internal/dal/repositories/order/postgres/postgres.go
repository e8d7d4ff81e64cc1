package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/order"
	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/jackc/pgx/v5"
)

// OrderDal represents the order header data access layer model.
type OrderDal struct {
	Id                 int64     `db:"id"`
	UserId             int64     `db:"user_id"`
	Status             string    `db:"status"`
	ShippingAddress    string    `db:"shipping_address"`
	PaymentMethod      string    `db:"payment_method"`
	PaymentStatus      string    `db:"payment_status"`
	ShippingStatus     string    `db:"shipping_status"`
	TrackingNumber     string    `db:"tracking_number"`
	TotalPriceCents    int64     `db:"total_price_cents"`
	TotalPriceCurrency string    `db:"total_price_currency"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.TotalPriceCurrency)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:                 o.Id,
		UserID:             o.UserId,
		Status:             o.Status,
		ShippingAddress:    o.ShippingAddress,
		PaymentMethod:      o.PaymentMethod,
		PaymentStatus:      o.PaymentStatus,
		ShippingStatus:     o.ShippingStatus,
		TrackingNumber:     o.TrackingNumber,
		TotalPriceCents:    o.TotalPriceCents,
		TotalPriceCurrency: cur,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		OrderItems:         []orderitem.OrderItem{}, // populated separately
	}, nil
}

var orderColumns = []string{
	"id",
	"user_id",
	"status",
	"shipping_address",
	"payment_method",
	"payment_status",
	"shipping_status",
	"tracking_number",
	"total_price_cents",
	"total_price_currency",
	"created_at",
	"updated_at",
}

// PostgresOrderRepository is a Postgres repository for order headers.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository bound
// to a pool or transaction.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.UserId,
		&dal.Status,
		&dal.ShippingAddress,
		&dal.PaymentMethod,
		&dal.PaymentStatus,
		&dal.ShippingStatus,
		&dal.TrackingNumber,
		&dal.TotalPriceCents,
		&dal.TotalPriceCurrency,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert creates an order header row and returns it with the generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	query, args, err := r.sb.Insert("orders").
		Columns(
			"user_id",
			"status",
			"shipping_address",
			"payment_method",
			"payment_status",
			"shipping_status",
			"tracking_number",
			"total_price_cents",
			"total_price_currency",
			"created_at",
			"updated_at",
		).
		Values(
			o.UserID,
			o.Status,
			o.ShippingAddress,
			o.PaymentMethod,
			o.PaymentStatus,
			o.ShippingStatus,
			o.TrackingNumber,
			o.TotalPriceCents,
			o.TotalPriceCurrency.String(),
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return inserted, nil
}

// Update patches the header row with the fields present in patch and returns
// the updated row. Absent fields keep their stored values.
func (r *PostgresOrderRepository) Update(ctx context.Context, id int64, patch order.Patch) (*order.Order, error) {
	builder := r.sb.Update("orders").Set("updated_at", time.Now())

	if patch.UserID != nil {
		builder = builder.Set("user_id", *patch.UserID)
	}
	if patch.Status != nil {
		builder = builder.Set("status", *patch.Status)
	}
	if patch.ShippingAddress != nil {
		builder = builder.Set("shipping_address", *patch.ShippingAddress)
	}
	if patch.PaymentMethod != nil {
		builder = builder.Set("payment_method", *patch.PaymentMethod)
	}
	if patch.PaymentStatus != nil {
		builder = builder.Set("payment_status", *patch.PaymentStatus)
	}
	if patch.ShippingStatus != nil {
		builder = builder.Set("shipping_status", *patch.ShippingStatus)
	}
	if patch.TrackingNumber != nil {
		builder = builder.Set("tracking_number", *patch.TrackingNumber)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order", id)
		}

		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return updated, nil
}

// UpdateTotal writes the recomputed total back onto the header.
func (r *PostgresOrderRepository) UpdateTotal(ctx context.Context, id int64, totalCents int64, cur currency.Currency) error {
	query, args, err := r.sb.Update("orders").
		Set("total_price_cents", totalCents).
		Set("total_price_currency", cur.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update total query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order", id)
	}

	return nil
}

// Query retrieves order headers based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := r.sb.Select(orderColumns...).From("orders").OrderBy("id")

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.UserIds) > 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserIds})
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
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Delete removes the header row and returns it.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) (*order.Order, error) {
	query, args, err := r.sb.Delete("orders").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete query: %w", err)
	}

	deleted, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order", id)
		}

		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	return deleted, nil
}

func columnList() string {
	return strings.Join(orderColumns, ", ")
}

package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	"github.com/corray333/backend-labs/store/internal/service/models/category"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/jackc/pgx/v5"
)

// CategoryDal represents the category data access layer model.
type CategoryDal struct {
	Id               int64     `db:"id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	ParentCategoryId *int64    `db:"parent_category_id"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToModel converts CategoryDal to the service layer Category model.
func (c *CategoryDal) ToModel() *category.Category {
	return &category.Category{
		ID:               c.Id,
		Name:             c.Name,
		Description:      c.Description,
		ParentCategoryID: c.ParentCategoryId,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// PostgresCategoryRepository is a Postgres repository for categories.
type PostgresCategoryRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCategoryRepository creates a new Postgres category repository
// bound to a pool or transaction.
func NewPostgresCategoryRepository(conn postgres.GenericConn) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const categoryColumns = "id, name, description, parent_category_id, created_at, updated_at"

func scanCategory(row pgx.Row) (*category.Category, error) {
	var dal CategoryDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.ParentCategoryId,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel(), nil
}

// Insert creates a category. Duplicate names surface as a conflict error
// instead of a new row (ON CONFLICT DO NOTHING semantics).
func (r *PostgresCategoryRepository) Insert(ctx context.Context, c category.Category) (*category.Category, error) {
	now := time.Now()

	query, args, err := r.sb.Insert("categories").
		Columns("name", "description", "parent_category_id", "created_at", "updated_at").
		Values(c.Name, c.Description, c.ParentCategoryID, now, now).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING " + categoryColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanCategory(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Conflict("category name already exists")
		}

		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	return inserted, nil
}

// GetByID retrieves a category by id.
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	query, args, err := r.sb.Select(categoryColumns).
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	c, err := scanCategory(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("category", id)
		}

		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// Query retrieves categories based on filter criteria.
func (r *PostgresCategoryRepository) Query(ctx context.Context, filter *category.QueryCategoriesModel) ([]category.Category, error) {
	builder := r.sb.
		Select(categoryColumns).
		From("categories").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
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
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var result []category.Category
	for rows.Next() {
		model, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	"github.com/corray333/backend-labs/store/internal/service/models/user"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/jackc/pgx/v5"
)

// UserDal represents the user account data access layer model.
type UserDal struct {
	Id        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToModel converts UserDal to the service layer User model.
func (u *UserDal) ToModel() *user.User {
	return &user.User{
		ID:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PostgresUserRepository is a Postgres repository for user accounts.
type PostgresUserRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresUserRepository creates a new Postgres user repository bound to
// a pool or transaction.
func NewPostgresUserRepository(conn postgres.GenericConn) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const userColumns = "id, username, email, password, role, created_at, updated_at"

func scanUser(row pgx.Row) (*user.User, error) {
	var dal UserDal
	err := row.Scan(
		&dal.Id,
		&dal.Username,
		&dal.Email,
		&dal.Password,
		&dal.Role,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel(), nil
}

// Insert creates a user. A duplicate email surfaces as a conflict error
// (ON CONFLICT DO NOTHING semantics).
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (*user.User, error) {
	now := time.Now()

	query, args, err := r.sb.Insert("users").
		Columns("username", "email", "password", "role", "created_at", "updated_at").
		Values(u.Username, u.Email, u.Password, u.Role, now, now).
		Suffix("ON CONFLICT (email) DO NOTHING RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Conflict("user already exists")
		}

		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return inserted, nil
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := r.sb.Select(userColumns).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	u, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", email)
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByID retrieves a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query, args, err := r.sb.Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	u, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", id)
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// Query retrieves users based on filter criteria.
func (r *PostgresUserRepository) Query(ctx context.Context, filter *user.QueryUsersModel) ([]user.User, error) {
	builder := r.sb.
		Select(userColumns).
		From("users").
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
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		model, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update patches the user row with the fields present in patch and returns
// the updated row.
func (r *PostgresUserRepository) Update(ctx context.Context, id int64, patch user.Patch) (*user.User, error) {
	builder := r.sb.Update("users").Set("updated_at", time.Now())

	if patch.Username != nil {
		builder = builder.Set("username", *patch.Username)
	}
	if patch.Email != nil {
		builder = builder.Set("email", *patch.Email)
	}
	if patch.Password != nil {
		builder = builder.Set("password", *patch.Password)
	}
	if patch.Role != nil {
		builder = builder.Set("role", *patch.Role)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", id)
		}

		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// Delete removes a user and returns the deleted row.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	query, args, err := r.sb.Delete("users").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete query: %w", err)
	}

	deleted, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", id)
		}

		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return deleted, nil
}

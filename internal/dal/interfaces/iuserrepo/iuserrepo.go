package iuserrepo

import (
	"context"

	"github.com/corray333/backend-labs/store/internal/service/models/user"
)

// IUserRepository is an interface for the user account repository.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Query(ctx context.Context, filter *user.QueryUsersModel) ([]user.User, error)
	Update(ctx context.Context, id int64, patch user.Patch) (*user.User, error)
	Delete(ctx context.Context, id int64) (*user.User, error)
}

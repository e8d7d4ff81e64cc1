package usersvc

import (
	"context"
	"errors"
	"time"

	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/store/internal/service/models/user"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/corray333/backend-labs/store/pkg/jwtauth"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns account registration, credential verification and account
// management. Passwords are bcrypt-hashed before they reach the repository.
type UserService struct {
	repo   iuserrepo.IUserRepository
	tokens *jwtauth.Manager
}

// option is a function that configures the UserService.
type option func(*UserService)

// MustNewUserService creates a new UserService.
func MustNewUserService(opts ...option) *UserService {
	s := &UserService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		panic("usersvc: user repository is required")
	}
	if s.tokens == nil {
		panic("usersvc: token manager is required")
	}

	return s
}

// WithUserRepository sets the user repository for the UserService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.IUserRepository) option {
	return func(s *UserService) {
		s.repo = repo
	}
}

// WithTokenManager sets the access token manager for the UserService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenManager(tokens *jwtauth.Manager) option {
	return func(s *UserService) {
		s.tokens = tokens
	}
}

// Register creates an account. The password is hashed before storage; a
// duplicate email surfaces as a conflict.
func (s *UserService) Register(ctx context.Context, u user.User) (*user.User, error) {
	if u.Username == "" {
		return nil, apperr.Validation("missing required argument: username")
	}
	if !user.ValidEmail(u.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	if len(u.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("could not hash password", err)
	}
	u.Password = string(hash)

	if u.Role == "" {
		u.Role = user.RoleUser
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	created, err := s.repo.Insert(ctx, u)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not register user", err)
	}

	return created, nil
}

// Login verifies the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", apperr.Unauthorized("invalid email or password")
		}

		return "", apperr.Internal("could not look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", apperr.Unauthorized("invalid email or password")
		}

		return "", apperr.Internal("could not verify password", err)
	}

	token, err := s.tokens.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		return "", apperr.Internal("could not issue token", err)
	}

	return token, nil
}

// GetByID retrieves a single account.
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not fetch user", err)
	}

	return u, nil
}

// GetUsers retrieves accounts matching the filter.
func (s *UserService) GetUsers(ctx context.Context, filter user.QueryUsersModel) ([]user.User, error) {
	users, err := s.repo.Query(ctx, &filter)
	if err != nil {
		return nil, apperr.Internal("could not fetch users", err)
	}

	return users, nil
}

// Replace overwrites every mutable field of the account, hashing the new
// password first.
func (s *UserService) Replace(ctx context.Context, id int64, u user.User) (*user.User, error) {
	if u.Username == "" {
		return nil, apperr.Validation("missing required argument: username")
	}
	if !user.ValidEmail(u.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	if len(u.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("could not hash password", err)
	}
	hashed := string(hash)

	role := u.Role
	if role == "" {
		role = user.RoleUser
	}

	patch := user.Patch{
		Username: &u.Username,
		Email:    &u.Email,
		Password: &hashed,
		Role:     &role,
	}

	return s.applyPatch(ctx, id, patch)
}

// Patch applies a selective update; omitted fields keep their stored values.
func (s *UserService) Patch(ctx context.Context, id int64, patch user.Patch) (*user.User, error) {
	if patch.IsEmpty() {
		return nil, apperr.Validation("no fields to update")
	}
	if patch.Email != nil && !user.ValidEmail(*patch.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			return nil, apperr.Validation("password must be at least 6 characters")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Internal("could not hash password", err)
		}
		hashed := string(hash)
		patch.Password = &hashed
	}

	return s.applyPatch(ctx, id, patch)
}

// Delete removes an account and returns the removed record.
func (s *UserService) Delete(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not delete user", err)
	}

	return u, nil
}

func (s *UserService) applyPatch(ctx context.Context, id int64, patch user.Patch) (*user.User, error) {
	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not update user", err)
	}

	return u, nil
}

package usersvc

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/backend-labs/store/internal/service/models/user"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/corray333/backend-labs/store/pkg/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byID   map[int64]user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]user.User), nextID: 1}
}

func (r *fakeUserRepo) Insert(_ context.Context, u user.User) (*user.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, apperr.Conflict("user already exists")
		}
	}

	u.ID = r.nextID
	r.nextID++
	r.byID[u.ID] = u

	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, apperr.NotFound("user", 0)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}

	return &u, nil
}

func (r *fakeUserRepo) Query(_ context.Context, filter *user.QueryUsersModel) ([]user.User, error) {
	var result []user.User
	for _, u := range r.byID {
		result = append(result, u)
	}

	return result, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, patch user.Patch) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = time.Now()
	r.byID[id] = u

	return &u, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	delete(r.byID, id)

	return &u, nil
}

func newTestService(repo *fakeUserRepo) *UserService {
	return MustNewUserService(
		WithUserRepository(repo),
		WithTokenManager(jwtauth.NewManager("test-secret", time.Hour)),
	)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, user.RoleUser, created.Role, "role defaults to user")
	assert.NotEqual(t, "hunter22", created.Password, "plaintext must never be stored")

	stored := repo.byID[created.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), user.User{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "hunter23",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		user user.User
	}{
		{name: "missing username", user: user.User{Email: "a@example.com", Password: "hunter22"}},
		{name: "bad email", user: user.User{Username: "a", Email: "not-an-email", Password: "hunter22"}},
		{name: "short password", user: user.User{Username: "a", Email: "a@example.com", Password: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeUserRepo())

			_, err := svc.Register(context.Background(), tt.user)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
		Role:     user.RoleAdmin,
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	claims, err := jwtauth.NewManager("test-secret", time.Hour).Parse(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err),
		"unknown email and wrong password must be indistinguishable")
}

func TestPatchUpdatesOnlyPresentFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	username := "alice-renamed"
	patched, err := svc.Patch(context.Background(), created.ID, user.Patch{Username: &username})
	require.NoError(t, err)

	assert.Equal(t, "alice-renamed", patched.Username)
	assert.Equal(t, "alice@example.com", patched.Email)

	_, err = svc.Login(context.Background(), "alice@example.com", "hunter22")
	assert.NoError(t, err, "password survives a patch that omits it")
}

func TestPatchRehashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	created, err := svc.Register(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	password := "new-password"
	_, err = svc.Patch(context.Background(), created.ID, user.Patch{Password: &password})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "new-password")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "hunter22")
	assert.Error(t, err)
}

func TestPatchEmpty(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Patch(context.Background(), 1, user.Patch{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

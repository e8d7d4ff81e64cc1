package users

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/store/internal/service/models/user"
	"github.com/corray333/backend-labs/store/internal/transport/http/middleware/auth"
	"github.com/corray333/backend-labs/store/internal/transport/http/respond"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, u user.User) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetUsers(ctx context.Context, filter user.QueryUsersModel) ([]user.User, error)
	Replace(ctx context.Context, id int64, u user.User) (*user.User, error)
	Patch(ctx context.Context, id int64, patch user.Patch) (*user.User, error)
	Delete(ctx context.Context, id int64) (*user.User, error)
}

// registerRequest represents a registration request.
type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

// Register handles the registration request.
//
//	@Summary	Register a new account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		registerRequest	true	"account data"
//	@Success	201		{object}	user.User
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/users/register [post]
func Register(w http.ResponseWriter, r *http.Request, service service) {
	req := registerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for register", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	created, err := service.Register(r.Context(), user.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// loginRequest represents a login request.
type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login handles the login request.
//
//	@Summary	Exchange credentials for an access token
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loginRequest	true	"credentials"
//	@Success	200		{object}	loginResponse
//	@Failure	401		{object}	map[string]string
//	@Router		/users/login [post]
func Login(w http.ResponseWriter, r *http.Request, service service) {
	req := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for login", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	token, err := service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// Me returns the account behind the presented token.
//
//	@Summary	Current account
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	user.User
//	@Failure	401	{object}	map[string]string
//	@Router		/users/me [get]
func Me(w http.ResponseWriter, r *http.Request, service service) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respond.Error(w, r, apperr.Unauthorized("missing bearer token"))

		return
	}

	u, err := service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, u)
}

type queryUsersRequest struct {
	Ids    []int64 `schema:"ids,omitempty"`
	Limit  int     `schema:"limit,omitempty"`
	Offset int     `schema:"offset,omitempty"`
}

// List handles the account listing request.
//
//	@Summary	List accounts
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ids		query		[]int	false	"account ids"
//	@Param		limit	query		int		false	"page size"
//	@Param		offset	query		int		false	"page offset"
//	@Success	200		{array}		user.User
//	@Failure	403		{object}	map[string]string
//	@Router		/users/get [get]
func List(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryUsersRequest{}
	if err := schema.NewDecoder().Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, r, apperr.Validation("invalid query parameters"))
		slog.Error("Error decoding request", "error", err)

		return
	}

	users, err := service.GetUsers(r.Context(), user.QueryUsersModel{
		Ids:    query.Ids,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, users)
}

// Get handles the single account request.
//
//	@Summary	Get one account
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"account id"
//	@Success	200	{object}	user.User
//	@Failure	404	{object}	map[string]string
//	@Router		/users/get/{id} [get]
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := service.GetByID(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, u)
}

// replaceRequest represents a full account replacement.
type replaceRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

// Put handles the full account replacement request.
//
//	@Summary	Replace an account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"account id"
//	@Param		request	body		replaceRequest	true	"account data"
//	@Success	200		{object}	user.User
//	@Failure	404		{object}	map[string]string
//	@Router		/users/put/{id} [put]
func Put(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req := replaceRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for user replace", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	u, err := service.Replace(r.Context(), id, user.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, u)
}

// Patch handles the selective account update request.
//
//	@Summary	Patch an account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int			true	"account id"
//	@Param		request	body		user.Patch	true	"fields to update"
//	@Success	200		{object}	user.User
//	@Failure	404		{object}	map[string]string
//	@Router		/users/patch/{id} [patch]
func Patch(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	patch := user.Patch{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for user patch", "error", err)

		return
	}

	u, err := service.Patch(r.Context(), id, patch)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, u)
}

// Delete handles the account deletion request.
//
//	@Summary	Delete an account
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"account id"
//	@Success	200	{object}	user.User
//	@Failure	404	{object}	map[string]string
//	@Router		/users/delete/{id} [delete]
func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := service.Delete(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, u)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid id"))

		return 0, false
	}

	return id, true
}

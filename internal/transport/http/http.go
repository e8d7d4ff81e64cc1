package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/store/internal/service/models/cartitem"
	"github.com/corray333/backend-labs/store/internal/service/models/category"
	"github.com/corray333/backend-labs/store/internal/service/models/order"
	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/store/internal/service/models/product"
	"github.com/corray333/backend-labs/store/internal/service/models/user"
	carthandlers "github.com/corray333/backend-labs/store/internal/transport/http/cart"
	categoryhandlers "github.com/corray333/backend-labs/store/internal/transport/http/categories"
	"github.com/corray333/backend-labs/store/internal/transport/http/middleware/auth"
	orderhandlers "github.com/corray333/backend-labs/store/internal/transport/http/orders"
	producthandlers "github.com/corray333/backend-labs/store/internal/transport/http/products"
	userhandlers "github.com/corray333/backend-labs/store/internal/transport/http/users"
	"github.com/corray333/backend-labs/store/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/store/pkg/jwtauth"
	"github.com/corray333/backend-labs/store/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/corray333/backend-labs/store/docs"
)

type userService interface {
	Register(ctx context.Context, u user.User) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetUsers(ctx context.Context, filter user.QueryUsersModel) ([]user.User, error)
	Replace(ctx context.Context, id int64, u user.User) (*user.User, error)
	Patch(ctx context.Context, id int64, patch user.Patch) (*user.User, error)
	Delete(ctx context.Context, id int64) (*user.User, error)
}

type catalogService interface {
	CreateCategory(ctx context.Context, c category.Category) (*category.Category, error)
	GetCategory(ctx context.Context, id int64) (*category.Category, error)
	GetCategories(ctx context.Context, filter category.QueryCategoriesModel) ([]category.Category, error)
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
	GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}

type cartService interface {
	AddItem(ctx context.Context, item cartitem.CartItem) (*cartitem.CartItem, error)
	GetItems(ctx context.Context, userID int64) ([]cartitem.CartItem, error)
}

type orderService interface {
	PlaceOrder(ctx context.Context, o order.Order) (*order.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch order.Patch, items []orderitem.OrderItem) (*order.Order, error)
	DeleteOrder(ctx context.Context, id int64) (*order.Order, error)
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	tokens  *jwtauth.Manager
	users   userService
	catalog catalogService
	cart    cartService
	orders  orderService
}

func NewHTTPTransport(
	tokens *jwtauth.Manager,
	users userService,
	catalog catalogService,
	cart cartService,
	orders orderService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		tokens:  tokens,
		users:   users,
		catalog: catalog,
		cart:    cart,
		orders:  orders,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops the server without dropping in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	authed := auth.Verifier(h.tokens)

	h.router.Route("/users", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/me", h.me)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Get("/get", h.listUsers)
				r.Get("/get/{id}", h.getUser)
				r.Put("/put/{id}", h.putUser)
				r.Patch("/patch/{id}", h.patchUser)
				r.Delete("/delete/{id}", h.deleteUser)
			})
		})
	})

	h.router.Route("/categories", func(r chi.Router) {
		r.Get("/get", h.listCategories)
		r.Get("/get/{id}", h.getCategory)

		r.Group(func(r chi.Router) {
			r.Use(authed, auth.RequireAdmin)
			r.Post("/post", h.createCategory)
		})
	})

	h.router.Route("/products", func(r chi.Router) {
		r.Get("/get", h.listProducts)
		r.Get("/get/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(authed, auth.RequireAdmin)
			r.Post("/post", h.createProduct)
		})
	})

	h.router.Route("/cart", func(r chi.Router) {
		r.Use(authed)
		r.Post("/post", h.addCartItem)
		r.Get("/get", h.listCartItems)
	})

	h.router.Route("/orders", func(r chi.Router) {
		r.Use(authed, auth.RequireAdmin)
		r.Post("/post", h.createOrder)
		r.Get("/get", h.listOrders)
		r.Get("/get/{id}", h.getOrder)
		r.Put("/put/{id}", h.putOrder)
		r.Patch("/patch/{id}", h.patchOrder)
		r.Delete("/delete/{id}", h.deleteOrder)
	})

	h.router.Get("/swagger/*", httpSwagger.Handler())
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	userhandlers.Register(w, r, h.users)
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	userhandlers.Login(w, r, h.users)
}

func (h *HTTPTransport) me(w http.ResponseWriter, r *http.Request) {
	userhandlers.Me(w, r, h.users)
}

func (h *HTTPTransport) listUsers(w http.ResponseWriter, r *http.Request) {
	userhandlers.List(w, r, h.users)
}

func (h *HTTPTransport) getUser(w http.ResponseWriter, r *http.Request) {
	userhandlers.Get(w, r, h.users)
}

func (h *HTTPTransport) putUser(w http.ResponseWriter, r *http.Request) {
	userhandlers.Put(w, r, h.users)
}

func (h *HTTPTransport) patchUser(w http.ResponseWriter, r *http.Request) {
	userhandlers.Patch(w, r, h.users)
}

func (h *HTTPTransport) deleteUser(w http.ResponseWriter, r *http.Request) {
	userhandlers.Delete(w, r, h.users)
}

func (h *HTTPTransport) createCategory(w http.ResponseWriter, r *http.Request) {
	categoryhandlers.Create(w, r, h.catalog)
}

func (h *HTTPTransport) listCategories(w http.ResponseWriter, r *http.Request) {
	categoryhandlers.List(w, r, h.catalog)
}

func (h *HTTPTransport) getCategory(w http.ResponseWriter, r *http.Request) {
	categoryhandlers.Get(w, r, h.catalog)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	producthandlers.Create(w, r, h.catalog)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	producthandlers.List(w, r, h.catalog)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	producthandlers.Get(w, r, h.catalog)
}

func (h *HTTPTransport) addCartItem(w http.ResponseWriter, r *http.Request) {
	carthandlers.Add(w, r, h.cart)
}

func (h *HTTPTransport) listCartItems(w http.ResponseWriter, r *http.Request) {
	carthandlers.List(w, r, h.cart)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	orderhandlers.Create(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	orderhandlers.List(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orderhandlers.Get(w, r, h.orders)
}

func (h *HTTPTransport) putOrder(w http.ResponseWriter, r *http.Request) {
	orderhandlers.Put(w, r, h.orders)
}

func (h *HTTPTransport) patchOrder(w http.ResponseWriter, r *http.Request) {
	orderhandlers.Patch(w, r, h.orders)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderhandlers.Delete(w, r, h.orders)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}

package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/store/internal/dal/postgres"
	"github.com/corray333/backend-labs/store/internal/dal/rabbitmq"
	auditrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/audit"
	cartrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/cart/postgres"
	categoryrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/category/postgres"
	outboxrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/product/postgres"
	userrepo "github.com/corray333/backend-labs/store/internal/dal/repositories/user/postgres"
	"github.com/corray333/backend-labs/store/internal/otel"
	"github.com/corray333/backend-labs/store/internal/service/services/cartsvc"
	"github.com/corray333/backend-labs/store/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/store/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/store/internal/service/services/usersvc"
	httptransport "github.com/corray333/backend-labs/store/internal/transport/http"
	outboxworker "github.com/corray333/backend-labs/store/internal/worker/outbox"
	"github.com/corray333/backend-labs/store/pkg/jwtauth"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient(postgres.Config{
		Host:           viper.GetString("postgres.host"),
		Port:           viper.GetInt("postgres.port"),
		User:           os.Getenv("POSTGRES_USER"),
		Password:       os.Getenv("POSTGRES_PASSWORD"),
		DBName:         viper.GetString("postgres.db"),
		SSLMode:        viper.GetString("postgres.ssl_mode"),
		MigrationsPath: viper.GetString("postgres.migrations_path"),
	})

	rabbitClient := rabbitmq.MustNewClient(rabbitmq.Config{
		Host:     viper.GetString("rabbitmq.host"),
		Port:     viper.GetInt("rabbitmq.port"),
		User:     os.Getenv("RABBITMQ_USER"),
		Password: os.Getenv("RABBITMQ_PASSWORD"),
	})

	tokenTTL := viper.GetDuration("auth.token_ttl")
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	tokens := jwtauth.NewManager(os.Getenv("JWT_SECRET"), tokenTTL)

	pool := postgresClient.Pool()

	userSvc := usersvc.MustNewUserService(
		usersvc.WithUserRepository(userrepo.NewPostgresUserRepository(pool)),
		usersvc.WithTokenManager(tokens),
	)

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithCategoryRepository(categoryrepo.NewPostgresCategoryRepository(pool)),
		catalogsvc.WithProductRepository(productrepo.NewPostgresProductRepository(pool)),
	)

	cartSvc := cartsvc.MustNewCartService(
		cartsvc.WithCartRepository(cartrepo.NewPostgresCartRepository(pool)),
		cartsvc.WithProductRepository(productrepo.NewPostgresProductRepository(pool)),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithAuditLogger(auditrepo.NewAuditRabbitMQRepository(rabbitClient)),
	)

	transport := httptransport.NewHTTPTransport(tokens, userSvc, catalogSvc, cartSvc, orderSvc)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(outboxrepo.NewOutboxRepository(pool), rabbitClient)

	return &App{
		transport:      transport,
		outboxWorker:   worker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}

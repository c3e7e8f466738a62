package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ironfitwear/storefront/internal/api"
	appcoupon "github.com/ironfitwear/storefront/internal/application/coupon"
	apporder "github.com/ironfitwear/storefront/internal/application/order"
	apppayment "github.com/ironfitwear/storefront/internal/application/payment"
	appuser "github.com/ironfitwear/storefront/internal/application/user"
	"github.com/ironfitwear/storefront/internal/application/catalog"
	"github.com/ironfitwear/storefront/internal/application/inventory"
	"github.com/ironfitwear/storefront/internal/config"
	domaincoupon "github.com/ironfitwear/storefront/internal/domain/coupon"
	domainorder "github.com/ironfitwear/storefront/internal/domain/order"
	domainpayment "github.com/ironfitwear/storefront/internal/domain/payment"
	domainproduct "github.com/ironfitwear/storefront/internal/domain/product"
	domainuser "github.com/ironfitwear/storefront/internal/domain/user"
	"github.com/ironfitwear/storefront/internal/infrastructure/id"
	"github.com/ironfitwear/storefront/internal/infrastructure/memory"
	"github.com/ironfitwear/storefront/internal/infrastructure/postgres"
	"github.com/ironfitwear/storefront/internal/infrastructure/ratelimit"
	"github.com/ironfitwear/storefront/internal/infrastructure/razorpay"
	"github.com/ironfitwear/storefront/internal/infrastructure/token"
	"github.com/ironfitwear/storefront/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type repositories struct {
	users    domainuser.Repository
	products domainproduct.Repository
	orders   domainorder.Repository
	coupons  domaincoupon.Repository
	payments domainpayment.Repository
}

func main() {
	cfg := config.Load()

	logger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage_init_failed", zap.Error(err))
	}

	limiter := buildLimiter(cfg, logger)

	ids := id.NewUUIDGenerator()
	tokens := token.NewManager(cfg.JWTSecret)
	provider := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayAPIURL)

	couponSvc := appcoupon.NewService(repos.coupons, ids)
	inventorySvc := inventory.NewService(repos.products)

	handler := api.NewRouter(api.Deps{
		Users:    appuser.NewService(repos.users, repos.products, tokens, ids),
		Catalog:  catalog.NewService(repos.products, ids),
		Coupons:  couponSvc,
		Orders:   apporder.NewService(repos.orders, repos.products, inventorySvc, couponSvc, provider, ids),
		Payments: apppayment.NewService(repos.payments, provider, ids),
		UserRepo: repos.users,
		Tokens:   tokens,
		Limiter:  limiter,
		Logger:   logger,
		Metrics:  api.NewMetrics(prometheus.DefaultRegisterer),

		AllowedOrigin: cfg.ClientURL,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}

// buildRepositories opens Postgres when DATABASE_URL is set and falls back to
// in-memory stores otherwise, so the server runs standalone in development.
func buildRepositories(ctx context.Context, cfg config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("using_memory_repositories")
		return &repositories{
			users:    memory.NewUserRepository(),
			products: memory.NewProductRepository(),
			orders:   memory.NewOrderRepository(),
			coupons:  memory.NewCouponRepository(),
			payments: memory.NewPaymentRepository(),
		}, nil
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return nil, err
	}
	logger.Info("postgres_connected")
	return &repositories{
		users:    postgres.NewUserRepository(db),
		products: postgres.NewProductRepository(db),
		orders:   postgres.NewOrderRepository(db),
		coupons:  postgres.NewCouponRepository(db),
		payments: postgres.NewPaymentRepository(db),
	}, nil
}

func buildLimiter(cfg config.Config, logger *zap.Logger) ratelimit.Limiter {
	if cfg.RedisURL == "" {
		logger.Warn("using_memory_ratelimiter")
		return ratelimit.NewMemoryLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis_url_invalid", zap.Error(err))
	}
	client := redis.NewClient(opts)
	return ratelimit.NewRedisLimiter(client, ratelimit.DefaultLimit, ratelimit.DefaultWindow)
}

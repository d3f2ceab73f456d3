package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/auth"
	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/config"
	"github.com/MikeMC777/tienda-checkout/internal/db"
	"github.com/MikeMC777/tienda-checkout/internal/events"
	"github.com/MikeMC777/tienda-checkout/internal/idempotency"
	"github.com/MikeMC777/tienda-checkout/internal/logging"
	"github.com/MikeMC777/tienda-checkout/internal/memstore"
	"github.com/MikeMC777/tienda-checkout/internal/metrics"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
	"github.com/MikeMC777/tienda-checkout/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.MustNew(logging.Options{Service: "order-service"}).Fatal("config", zap.Error(err))
	}
	log := logging.MustNew(logging.Options{
		Service: cfg.ServiceName, Env: cfg.Env, Level: cfg.Log.Level, File: cfg.Log.File,
	})
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		uow      order.UnitOfWork
		orders   order.Store
		carts    *cart.Aggregator
		userRepo user.Repository
	)
	switch cfg.Store {
	case config.StoreMemory:
		ms := memstore.New()
		n, err := ms.LoadCatalog(ctx, cfg.Memory.SeedFile)
		if err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
		uow, orders = ms, ms.Orders()
		carts = cart.NewAggregator(ms.Carts(), ms.Products(), ms.Ledger())
		userRepo = ms.Users()
		log.Warn("using in-memory store, data is lost on restart", zap.Int("products", n))
	default:
		if cfg.Postgres.Migrate {
			if err := db.Migrate(cfg.Postgres.DSN); err != nil {
				log.Fatal("migrate", zap.Error(err))
			}
		}
		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal("postgres", zap.Error(err))
		}
		defer pool.Close()
		uow, orders = order.NewPGUnitOfWork(pool), order.NewPGRepo(pool)
		carts = cart.NewAggregator(cart.NewPGRepo(pool), product.NewPGRepo(pool), stock.NewPGLedger(pool))
		userRepo = user.NewPGRepo(pool)
	}

	var idem idempotency.Store = idempotency.NewMemoryStore(cfg.Idempotency.TTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		idem = idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		defer kp.Close()
		publisher = kp
	}

	users := user.NewService(userRepo)
	if cfg.Admin.Email != "" {
		if _, err := users.EnsureAdmin(ctx, user.RegisterRequest{
			Username: "admin", Email: cfg.Admin.Email, Password: cfg.Admin.Password,
		}); err != nil {
			log.Fatal("ensure admin", zap.Error(err))
		}
	}

	coordinator := order.NewCoordinator(uow, orders,
		order.WithLogger(log),
		order.WithMetrics(metrics.NewWorkflow(reg)),
		order.WithPublisher(publisher),
	)

	r := newRouter(deps{
		log:         log,
		reg:         reg,
		issuer:      auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
		users:       users,
		carts:       carts,
		coordinator: coordinator,
		idem:        idem,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("order-service listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

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
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/auth"
	"github.com/MikeMC777/tienda-checkout/internal/config"
	"github.com/MikeMC777/tienda-checkout/internal/db"
	"github.com/MikeMC777/tienda-checkout/internal/logging"
	"github.com/MikeMC777/tienda-checkout/internal/memstore"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

const serviceName = "product-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.MustNew(logging.Options{Service: serviceName}).Fatal("config", zap.Error(err))
	}
	log := logging.MustNew(logging.Options{
		Service: serviceName, Env: cfg.Env, Level: cfg.Log.Level, File: cfg.Log.File,
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
		repo   product.Repository
		ledger stock.Ledger
	)
	switch cfg.Store {
	case config.StoreMemory:
		ms := memstore.New()
		n, err := ms.LoadCatalog(ctx, cfg.Memory.SeedFile)
		if err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
		repo, ledger = ms.Products(), ms.Ledger()
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
		repo, ledger = product.NewPGRepo(pool), stock.NewPGLedger(pool)
	}

	r := newRouter(deps{
		log:    log,
		reg:    reg,
		issuer: auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
		repo:   repo,
		ledger: ledger,
	})

	srv := &http.Server{Addr: cfg.ProductHTTPAddr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("product-service listening", zap.String("addr", cfg.ProductHTTPAddr))
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

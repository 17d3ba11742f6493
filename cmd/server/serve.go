package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"storefront-service/internal/config"
	handler "storefront-service/internal/controllers/http"
	"storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/storage"
	"storefront-service/internal/outbound"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serve(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mysql.NewMySQL(cfg.MySQL)
	if err != nil {
		return err
	}
	if err := mysql.Migrate(db); err != nil {
		return err
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, lg)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		lg.Warn("rabbitmq url not set, order events are not published")
	}

	files := storage.NewLocal(cfg.Storage.Root, cfg.Storage.PublicBaseURL, cfg.Storage.URLPrefix)
	links := outbound.NewLinkBuilder(cfg.Store.WhatsAppURL, cfg.Store.CurrencySymbol)

	orders := services.NewOrderService(
		mysqlrepo.NewOrderRepository(db, lg),
		mysqlrepo.NewProductRepository(db),
		files,
		publisher,
		links,
		cfg.Store.WhatsAppNumber,
		lg,
	)
	catalog := services.NewCatalogService(
		mysqlrepo.NewProductRepository(db),
		mysqlrepo.NewCategoryRepository(db),
		files,
		lg,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.LoggerMiddleware(lg))
	r.MaxMultipartMemory = 8 << 20
	r.Static(cfg.Storage.URLPrefix, files.Root())
	handler.NewHandler(orders, catalog, lg).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("starting storefront service", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

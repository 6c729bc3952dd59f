package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/controllers/http"
	"storefront/internal/infra/cdn"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/invoice"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	taxonomy := catalog.DefaultTaxonomy()
	if cfg.TaxonomyFile != "" {
		if taxonomy, err = catalog.LoadTaxonomy(cfg.TaxonomyFile); err != nil {
			log.Fatalf("taxonomy: %v", err)
		}
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}
	orderRepo := mysqlrepo.NewOrderRepository(db)
	counterRepo := mysqlrepo.NewCounterRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.OrderExchange)
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Printf("RABBITMQ_URL not set, order events are dropped")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := cache.NewCachedSource(productRepo, redisClient, cfg.CatalogPollInterval)
	watcher := catalog.NewWatcher(source, cfg.CatalogPollInterval)
	go watcher.Run(ctx)

	shop := invoice.DefaultShop()
	shop.QRImage = cfg.QRImagePath
	composer := invoice.NewComposer(shop, taxonomy)
	renderer := invoice.NewPDFRenderer()

	checkout := services.NewCheckoutService(
		cache.NewRedisSessionStore(redisClient, cfg.SessionTTL),
		watcher,
		orderRepo,
		counterRepo,
		publisher,
		composer,
		renderer,
		services.CheckoutOptions{MinimumOrder: cfg.MinOrderAmount, SharePhone: cfg.SharePhone},
	)
	uploader := cdn.NewCloudinaryClient(cfg.Cloudinary.CloudName, cfg.Cloudinary.UploadPreset, 30*time.Second)
	admin := services.NewAdminService(orderRepo, productRepo, uploader, watcher, composer, renderer, taxonomy)
	authn := auth.NewAuthenticator(cfg.Admin.Email, cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)

	handler := http.NewHandler(checkout, admin, watcher, taxonomy, authn)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Starting storefront on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("server run: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	checkout.Wait()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

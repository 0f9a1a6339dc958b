package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/handler"
	"github.com/MahyaarMaleki/storetrack/internal/infra/cache"
	"github.com/MahyaarMaleki/storetrack/internal/infra/db"
	"github.com/MahyaarMaleki/storetrack/internal/infra/events"
	infraRepo "github.com/MahyaarMaleki/storetrack/internal/infra/repository"
	"github.com/MahyaarMaleki/storetrack/internal/logger"
	"github.com/MahyaarMaleki/storetrack/internal/middleware"
	"github.com/MahyaarMaleki/storetrack/internal/server"
	"github.com/MahyaarMaleki/storetrack/internal/usecase"
	auth "github.com/MahyaarMaleki/storetrack/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	//.envはなくてもいい（本番は環境変数）
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.IsProduction()); err != nil {
		log.Fatal("failed to set up logger: ", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = db.Close(gormDB) }()
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("failed to run migrations: ", err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	historyRepo := infraRepo.NewHistoryGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB, db.TxOptions(cfg))

	//商品キャッシュ（REDIS_ADDRがなければ使わない）
	var productCache usecase.ProductCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = client.Close() }()
		productCache = cache.NewProductCache(client, cfg.ProductCacheTTL)
		log.WithField("addr", cfg.RedisAddr).Info("product cache enabled")
	}

	//注文イベント（RABBITMQ_URLがなければ送らない）
	var publisher usecase.EventPublisher
	if cfg.RabbitMQURL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = p.Close() }()
		publisher = p
		log.WithField("exchange", cfg.RabbitMQExchange).Info("order events enabled")
	}

	//JWT
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, auth.SystemClock{})
	if err != nil {
		log.Fatal(err)
	}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, txm, productCache)
	orderUC := usecase.NewOrderUsecase(orderRepo, txm, productCache, publisher)
	historyUC := usecase.NewHistoryUsecase(historyRepo)
	loginUC := auth.NewLoginUsecase(adminRepo, auth.NewBcryptPasswordVerifier(), tokens)

	e := server.New(cfg, server.Deps{
		Auth:         handler.NewAuthHandler(loginUC, cfg.IsProduction()),
		Products:     handler.NewProductHandler(productUC),
		History:      handler.NewHistoryHandler(historyUC),
		Orders:       handler.NewOrderHandler(orderUC),
		Verifier:     tokens,
		LoginLimiter: middleware.NewPerMinuteLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst),
		Ping: func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server: ", err)
		}
	}()

	//シグナルを待ってgraceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown: ", err)
		return
	}
	log.Info("server exited")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"umrahstay/internal/cache"
	"umrahstay/internal/config"
	"umrahstay/internal/database"
	"umrahstay/internal/domain/hotel"
	"umrahstay/internal/notification"
	jwtsvc "umrahstay/internal/pkg/jwt"
	"umrahstay/internal/schema"
	"umrahstay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := schema.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	var searchCache hotel.SearchCache
	if rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer rdb.Close()
		searchCache = cache.NewSearchCache(rdb, cfg.SearchCacheTTL)
	}

	var publisher notification.Publisher = notification.LogPublisher{}
	var amqpPublisher *notification.AMQPPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher = notification.NewAMQPPublisher(cfg.AMQPURL, cfg.NotifyQueue)
		publisher = amqpPublisher
	}
	notifier := notification.NewNotifier(publisher)

	r := server.NewRouter(server.Deps{
		DB:          db,
		JWT:         jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		SearchCache: searchCache,
		Notifier:    notifier,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting addr=%s env=%s dialect=%s", srv.Addr, cfg.AppEnv, database.Dialect(db))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}

	notifier.Wait()
	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			log.Printf("amqp close: %v", err)
		}
	}
	log.Println("server stopped")
}

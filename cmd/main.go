package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/board"
	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/checkout"
	"github.com/dean3213321/pos-go/internal/config"
	"github.com/dean3213321/pos-go/internal/server"
	"github.com/dean3213321/pos-go/internal/wispaycache"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	api := backend.NewClient(backend.Config{
		BaseURL: cfg.BackendBaseURL,
		Timeout: cfg.BackendTimeout,
		Operator: backend.Operator{
			EmpID:    cfg.OperatorEmpID,
			Username: cfg.OperatorUsername,
		},
	}, log)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	store := cart.NewStore(cfg.SessionTTL)
	defer store.Close()

	wispay := wispaycache.NewService(wispaycache.NewRedisCache(redisClient), api, log)
	defer wispay.Close()

	orderBoard := board.NewBoard(api, log)
	orderBoard.Start()
	defer orderBoard.Close()

	refresh := server.NewRefreshFeed()
	checkoutSvc := checkout.NewService(api, refresh.Bump, log)

	srv := server.New(server.Deps{
		Store:    store,
		Checkout: checkoutSvc,
		Catalog:  api,
		Admin:    api,
		Board:    orderBoard,
		Wispay:   wispay,
		Refresh:  refresh,
		Log:      log,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // the board feed writes indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("POS terminal starting", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

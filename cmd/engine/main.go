package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"weiqi_client/internal/adapters"
	"weiqi_client/internal/bootstrap"
	gameDelivery "weiqi_client/internal/delivery/game"
	repo "weiqi_client/internal/repository"
	gameuc "weiqi_client/internal/usecase/game"
)

const positionTTL = 24 * time.Hour

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to setup configuration:", err)
		os.Exit(1)
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	store, closeStore := initPositionStore(ctx, logger, cfg)
	defer closeStore()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	gameDelivery.NewGameHandler(logger, gameuc.NewGameUseCase(logger, store)).Routes(r)

	srv := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to stop server", zap.Error(err))
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// initPositionStore uses Redis when REDIS_URL is set and keeps positions in memory otherwise.
func initPositionStore(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (gameuc.PositionStore, func()) {
	if cfg.RedisUrl == "" {
		log.Info("REDIS_URL is empty, positions are kept in memory")
		return repo.NewMemoryPositionRepository(), func() {}
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	return repo.NewPositionRepository(log, redisAdapter.GetClient(), positionTTL), func() {
		_ = redisAdapter.Close(ctx)
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}

package main

import (
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/config"
	"auction-house/internal/identity"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/sweeper"
	"auction-house/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load config", map[string]any{"error": err.Error()})
	}
	utils.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
	}
	defer store.Close()

	auctionRepo := repository.NewAuctionRepo(store)
	userRepo := repository.NewUserRepo(store, repository.WithPasswordComparer(newComparer(cfg)))
	sessionRepo := repository.NewSessionRepo(store)

	if cfg.SeedDemoUsers {
		seedDemoUsers(ctx, userRepo)
	}

	biddingSvc := bidding.NewBiddingService(auctionRepo)
	identitySvc := identity.NewService(userRepo, sessionRepo)

	sweep := sweeper.New(auctionRepo, sweeper.WithInterval(cfg.SweepInterval))
	sweep.Start(ctx)
	defer sweep.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := server.SetupRouter(biddingSvc, identitySvc)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		utils.Info(fmt.Sprintf("Starting auction server on %s...", cfg.Addr()), map[string]any{
			"store":   cfg.StoreDriver,
			"hashing": cfg.PasswordHashing,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("server failed", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore opens the document store selected by the configuration
func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		utils.Warn("using in-memory store; state is lost on exit", nil)
		return repository.NewMemoryStore(), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return repository.NewRedisStore(client, repository.WithKeyPrefix(cfg.RedisPrefix)), nil
	default:
		return repository.OpenSQLiteStore(cfg.SQLitePath)
	}
}

func newComparer(cfg config.Config) repository.PasswordComparer {
	if cfg.PasswordHashing == config.HashingArgon2 {
		return repository.NewArgon2Comparer()
	}
	return repository.PlainComparer{}
}

// seedDemoUsers adds the demo accounts when no user exists yet
func seedDemoUsers(ctx context.Context, repo *repository.UserRepo) {
	users := []model.User{
		{Email: "admin@123", Password: "admin123", Role: model.RoleAdmin},
		{Email: "admin@abu.edu", Password: "admin123", Role: model.RoleAdmin},
		{Email: "student@abu.edu", Password: "student123", Role: model.RoleUser},
	}

	inserted, err := repo.SeedIfEmpty(ctx, users)
	if err != nil {
		utils.Error("failed to seed demo users", map[string]any{"error": err.Error()})
		return
	}
	if inserted > 0 {
		utils.Info("demo users seeded", map[string]any{"count": inserted})
	}
}

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

	"github.com/joho/godotenv"

	"github.com/hongminglow/backoffice/internal/auth"
	"github.com/hongminglow/backoffice/internal/config"
	"github.com/hongminglow/backoffice/internal/dashboard"
	"github.com/hongminglow/backoffice/internal/dispatch"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/server"
	"github.com/hongminglow/backoffice/internal/service"
	"github.com/hongminglow/backoffice/internal/session"
	"github.com/hongminglow/backoffice/internal/storage"
	"github.com/hongminglow/backoffice/internal/storage/memory"
	"github.com/hongminglow/backoffice/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging)
	if envErr != nil {
		log.Debug("no .env file found; relying on existing environment")
	}
	if cfg.Source == "" {
		log.Warn("config file not found; using defaults and environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("init storage failed", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	sess := session.New(cfg.SessionTimeout)
	authSvc := service.NewAuthService(store, store, tokens, sess, log, cfg.DefaultRole)
	roleSvc := service.NewRoleService(store, log)

	loop := dispatch.NewLoop(0)
	go loop.Run(ctx)
	refresher := dashboard.NewRefresher(store, loop, cfg.Currency, log)
	go refresher.Run(ctx, cfg.DashboardRefresh)

	srv := server.New(cfg, server.Deps{
		Store:     store,
		Auth:      authSvc,
		Roles:     roleSvc,
		Dashboard: refresher,
		Log:       log,
	})

	go func() {
		log.Info("back office listening", "address", cfg.HTTPAddress, "driver", cfg.Database.Driver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown error", "error", err)
	}
	authSvc.Logout()
	<-loop.Done()
	log.Info("back office stopped")
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		return memory.NewStore(), nil
	default:
		store, err := postgres.NewStore(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

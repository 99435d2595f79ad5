package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-master-backend/internal/config"
	"quiz-master-backend/internal/database"
	"quiz-master-backend/internal/handlers"
	"quiz-master-backend/internal/packs"
	"quiz-master-backend/internal/services"
	"quiz-master-backend/internal/store"
	"quiz-master-backend/internal/ws"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	results, closeStore, err := openResultStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	library, err := packs.Load(cfg.QuestionPacksDir)
	if err != nil {
		return err
	}
	log.Printf("loaded %d question packs", library.Len())

	hub := ws.NewHub()
	history := services.NewHistoryService(results)
	game := services.NewOrchestrator(
		services.NewRegistry(),
		services.NewScoringService(),
		hub,
		services.RealClock(),
		services.OrchestratorConfig{
			TopN:           cfg.LeaderboardTopN,
			DeadlineBuffer: cfg.DeadlineBuffer,
			EventBuffer:    cfg.EventBuffer,
			Packs:          library,
			History:        history,
		},
	)

	router := handlers.NewRouter(handlers.Handlers{
		WS:      handlers.NewWSHandler(hub, game, cfg.AllowedOrigins),
		History: handlers.NewHistoryHandler(history),
		Packs:   handlers.NewPacksHandler(library),
		Health:  handlers.NewHealthHandler(game),
	}, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		game.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		<-loopDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	<-loopDone
	log.Println("server stopped")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openResultStore(ctx context.Context, cfg *config.Config) (store.ResultStore, io.Closer, error) {
	switch cfg.ResultsBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return store.NewGormStore(db), sqlDB, nil

	case config.BackendRedis:
		rs, err := store.NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.ResultsTTL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("results stored in redis at %s", cfg.Redis.Addr)
		return rs, rs, nil

	default:
		log.Println("results kept in memory")
		return store.NewMemoryStore(), nopCloser{}, nil
	}
}

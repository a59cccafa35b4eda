package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playverse/room-service/config"
	"github.com/playverse/room-service/internal/broadcast"
	"github.com/playverse/room-service/internal/pg"
	"github.com/playverse/room-service/internal/postgres"
	"github.com/playverse/room-service/internal/service"
	grpcx "github.com/playverse/room-service/internal/transport/grpc"
	httpx "github.com/playverse/room-service/internal/transport/http"
	"github.com/playverse/room-service/internal/transport/ws"
	"github.com/playverse/room-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting room-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- postgres ---
	pool, err := pg.NewPool(ctx, pg.Config{
		DSN:             cfg.Postgres.DSN,
		ApplicationName: cfg.Logging.Service,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- repos ---
	roomRepo := postgres.NewRoomRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	modRepo := postgres.NewModerationRepository(pool)
	banRepo := postgres.NewBanRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	permRepo := postgres.NewPermissionRepository(pool)

	// --- broadcaster: in-memory хаб, при наличии redis — межпроцессный мост ---
	hub := broadcast.NewHub()
	var caster broadcast.Broadcaster = hub
	if cfg.Redis.Addr != "" {
		rdb, err := broadcast.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()

		bridge := broadcast.NewRedisBridge(hub, rdb)
		go bridge.Run(ctx)
		caster = bridge
		slog.Info("broadcast bridge enabled", "addr", cfg.Redis.Addr)
	}

	// --- services ---
	permSvc := service.NewPermissionService(roomRepo, memberRepo, permRepo)
	roomSvc := service.NewRoomService(roomRepo, cfg.Room.MaxSeats, cfg.Room.CodeFloor)
	memberSvc := service.NewMemberService(roomRepo, memberRepo, banRepo, caster)
	modSvc := service.NewModerationService(permSvc, roomRepo, modRepo, permRepo, eventRepo, banRepo, caster)

	// --- WS ---
	wsServer := ws.NewServer(hub, memberSvc, modRepo)

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, memberSvc, modSvc)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- gRPC (health) ---
	grpcServer := grpcx.NewServer()

	// --- run both servers ---
	errCh := make(chan error, 2)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			errCh <- err
			return
		}
		slog.Info("grpc listen", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	grpcServer.GracefulStop()
	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}

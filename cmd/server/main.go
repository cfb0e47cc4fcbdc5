package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/access"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/config"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/export"
	admingrpc "github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/grpc"
	internalhttp "github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/http"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/jobs"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/logging"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/session"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/staging"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var kv staging.KV = staging.NewMemory()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal("redis ping failed", zap.Error(err))
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close error", zap.Error(err))
			}
		}()
		kv = staging.NewRedis(redisClient)
	}

	memoryLog := audit.NewMemory(200)
	recorders := []audit.Recorder{memoryLog}
	var auditLog internalhttp.AuditLog = memoryLog
	var auditStore *audit.Postgres
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connection failed", zap.Error(err))
		}
		defer pool.Close()
		auditStore, err = audit.NewPostgres(ctx, pool)
		if err != nil {
			logger.Fatal("audit schema init failed", zap.Error(err))
		}
		recorders = append(recorders, auditStore)
		auditLog = auditStore
	}
	if cfg.NATSURL != "" {
		publisher, err := audit.NewPublisher(cfg.NATSURL)
		if err != nil {
			logger.Fatal("nats init failed", zap.Error(err))
		}
		defer publisher.Close()
		recorders = append(recorders, publisher)
	}
	trail := audit.NewTrail(logger, recorders...)

	var archiver export.Archiver = export.Nop{}
	if cfg.ArchiveEnabled() {
		b2, err := export.NewB2Archiver(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
		if err != nil {
			logger.Fatal("b2 archiver init failed", zap.Error(err))
		}
		archiver = b2
	}

	client := backend.New(cfg.BackendURL, cfg.BackendTimeout, logger)
	sessions := session.NewCookieStore(session.Options{
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
	})

	health := admingrpc.NewHealth()
	var backendUp atomic.Bool
	backendUp.Store(true)
	jobs.StartBackendProbe(ctx, cfg.BackendProbeInterval, client, func(up bool) {
		backendUp.Store(up)
		health.SetBackendUp(up)
	}, logger)
	if auditStore != nil {
		jobs.StartAuditPurge(ctx, cfg.AuditPurgeInterval, cfg.AuditRetentionDays, auditStore, logger)
	}

	server, err := internalhttp.NewServer(internalhttp.Deps{
		Config:    cfg,
		Logger:    logger,
		Backend:   client,
		Sessions:  sessions,
		Leaders:   access.NewLeaderResolver(client, kv, cfg.LeaderCacheTTL, logger),
		Stager:    staging.NewStager(kv, cfg.StagingTTL),
		Audit:     trail,
		AuditLog:  auditLog,
		Archiver:  archiver,
		BackendUp: backendUp.Load,
	})
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcServer := admingrpc.NewServer(health, cfg.ServiceAuthToken, logger)

	go func() {
		logger.Info("admin http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	if cfg.GRPCEnabled() {
		go func() {
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				logger.Fatal("grpc listen error", zap.Error(err))
			}
			logger.Info("admin grpc listening", zap.String("addr", cfg.GRPCAddr))
			if err := grpcServer.Serve(listener); err != nil {
				logger.Fatal("grpc server error", zap.Error(err))
			}
		}()
	} else {
		logger.Info("admin grpc disabled")
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	health.Shutdown()
	if cfg.GRPCEnabled() {
		grpcServer.GracefulStop()
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/villasync/config"
	"github.com/Domenick1991/villasync/internal/bootstrap"
	"github.com/Domenick1991/villasync/internal/cache"
	"github.com/Domenick1991/villasync/internal/kafka"
	"github.com/Domenick1991/villasync/internal/repository"
	"github.com/Domenick1991/villasync/internal/service/approval"
	"github.com/Domenick1991/villasync/internal/service/resolver"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Resolver.PropertiesCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	checkCtx, checkCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := producer.CheckConnection(checkCtx); err != nil {
		log.Printf("kafka connection check: %v", err)
	}
	checkCancel()

	propertyRepo := repository.NewPropertyRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	resolverService := resolver.NewResolverService(propertyRepo, redisCache)

	opts := []approval.ApprovalServiceOption{
		approval.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	}
	if cfg.Approval.OptimisticLock {
		opts = append(opts, approval.WithOptimisticLock(cfg.Approval.OptimisticLockRetries))
	}
	if cfg.Approval.EnableStaffAssignment {
		opts = append(opts, approval.WithPostApprovalHook(approval.StaffAssignmentHook()))
	}
	if cfg.Approval.EnableCalendarEvents {
		opts = append(opts, approval.WithPostApprovalHook(approval.CalendarEventHook()))
	}
	approvalService := approval.NewApprovalService(
		bookingRepo,
		producer,
		cfg.Kafka.SyncEventsTopic,
		opts...,
	)

	if err := bootstrap.Run(ctx, cfg, resolverService, approvalService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/villasync/config"
	"github.com/Domenick1991/villasync/internal/kafka"
	"github.com/Domenick1991/villasync/internal/notify"
	"github.com/Domenick1991/villasync/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingSyncEvent) error {
			return sender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepBatch := cfg.Worker.SyncSweepBatch
	if sweepBatch <= 0 {
		sweepBatch = 100
	}

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SyncSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			synced, err := sweepUnsyncedEvents(ctx, bookingRepo, producer, cfg.Kafka.SyncEventsTopic, sweepBatch)
			if err != nil {
				log.Printf("sync sweep error: %v", err)
				continue
			}
			if synced > 0 {
				log.Printf("re-published %d sync events", synced)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}

// sweepUnsyncedEvents re-publishes sync_events rows nobody has delivered yet
// and marks them synced only after a successful publish. The approval core
// itself never flips the flag.
func sweepUnsyncedEvents(ctx context.Context, repo repository.BookingRepository, producer *kafka.Producer, topic string, limit int) (int, error) {
	events, err := repo.ListUnsyncedEvents(ctx, limit)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, e := range events {
		payload := kafka.NewBookingSyncEvent(e)
		if err := producer.PublishWithRetry(ctx, topic, e.EntityID, payload, 3); err != nil {
			log.Printf("re-publish sync event %s: %v", e.ID, err)
			continue
		}
		if err := repo.MarkEventSynced(ctx, e.ID); err != nil {
			log.Printf("mark sync event %s synced: %v", e.ID, err)
			continue
		}
		synced++
	}
	return synced, nil
}
